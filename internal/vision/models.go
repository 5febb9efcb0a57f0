package vision

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/your-org/attendance/internal/config"
	"github.com/your-org/attendance/internal/observability"
)

// Models bundles the ONNX sessions the terminal needs: face detection,
// eye landmarks for blink liveness, and encoding extraction.
type Models struct {
	detector   *Detector
	landmarker *Landmarker
	embedder   *Embedder
}

// NewModels loads all ONNX models from the configured directory.
func NewModels(cfg config.VisionConfig) (*Models, error) {
	detPath := filepath.Join(cfg.ModelsDir, "det_10g.onnx")
	lmkPath := filepath.Join(cfg.ModelsDir, "2d106det.onnx")
	embPath := filepath.Join(cfg.ModelsDir, "w600k_r50.onnx")

	slog.Info("loading detection model", "path", detPath)
	det, err := NewDetector(detPath, float32(cfg.DetectionThreshold))
	if err != nil {
		return nil, fmt.Errorf("load detector: %w", err)
	}

	slog.Info("loading landmark model", "path", lmkPath)
	lmk, err := NewLandmarker(lmkPath)
	if err != nil {
		det.Close()
		return nil, fmt.Errorf("load landmarker: %w", err)
	}

	slog.Info("loading embedding model", "path", embPath)
	emb, err := NewEmbedder(embPath)
	if err != nil {
		det.Close()
		lmk.Close()
		return nil, fmt.Errorf("load embedder: %w", err)
	}

	slog.Info("vision models ready")

	return &Models{detector: det, landmarker: lmk, embedder: emb}, nil
}

// primaryFace detects faces and returns the padded crop of the first
// (highest-confidence) one. found=false means no face in frame.
func (m *Models) primaryFace(img image.Image) (image.Image, bool, error) {
	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()

	start := time.Now()
	detInput := preprocessForDetection(img, m.detector.inputW, m.detector.inputH)
	detections, err := m.detector.Detect(detInput, origW, origH)
	observability.InferenceDuration.WithLabelValues("detect").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("detect: %w", err)
	}
	if len(detections) == 0 {
		return nil, false, nil
	}

	crop := cropFace(img, detections[0].BBox)
	if crop == nil {
		return nil, false, nil
	}
	return crop, true, nil
}

// EyeState returns the mean eye-aspect-ratio of the primary face.
// found=false means no face or no usable landmarks; the blink tracker
// treats such frames as no-ops.
func (m *Models) EyeState(img image.Image) (float64, bool, error) {
	crop, found, err := m.primaryFace(img)
	if err != nil || !found {
		return 0, false, err
	}

	cb := crop.Bounds()
	start := time.Now()
	lmkInput := preprocessForLandmarks(crop, m.landmarker.inputW, m.landmarker.inputH)
	points, err := m.landmarker.Predict(lmkInput, cb.Dx(), cb.Dy())
	observability.InferenceDuration.WithLabelValues("landmarks").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, false, fmt.Errorf("landmarks: %w", err)
	}

	ear, ok := MeanEyeAspectRatio(points)
	return ear, ok, nil
}

// Encoding extracts the primary face's encoding. found=false means no
// face was detected in the frame.
func (m *Models) Encoding(img image.Image) ([]float32, bool, error) {
	crop, found, err := m.primaryFace(img)
	if err != nil || !found {
		return nil, false, err
	}

	start := time.Now()
	embInput := preprocessForEmbedding(crop, m.embedder.inputW, m.embedder.inputH)
	encoding, err := m.embedder.Extract(embInput)
	observability.InferenceDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("embed: %w", err)
	}

	return encoding, true, nil
}

// Close releases all ONNX sessions.
func (m *Models) Close() {
	if m.detector != nil {
		m.detector.Close()
	}
	if m.landmarker != nil {
		m.landmarker.Close()
	}
	if m.embedder != nil {
		m.embedder.Close()
	}
}
