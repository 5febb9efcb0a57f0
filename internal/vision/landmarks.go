package vision

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Point is a 2D landmark in face-crop pixel coordinates.
type Point struct {
	X, Y float32
}

const landmarkCount = 106

// Landmarker predicts 106 facial landmarks using the InsightFace
// 2d106det model. The eye contours feed the blink detector.
type Landmarker struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputW       int
	inputH       int
}

// NewLandmarker loads the 2d106det ONNX model.
func NewLandmarker(modelPath string) (*Landmarker, error) {
	// 2d106det expects a 192x192 crop.
	inputW, inputH := 192, 192

	inputShape := ort.NewShape(1, 3, int64(inputH), int64(inputW))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	// Output: [1, 212] — x,y pairs normalized to [-1, 1] over the crop.
	outputShape := ort.NewShape(1, int64(landmarkCount*2))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"data"},
		[]string{"fc1"},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create landmark session: %w", err)
	}

	return &Landmarker{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inputW:       inputW,
		inputH:       inputH,
	}, nil
}

// Predict runs landmark detection on a preprocessed CHW face crop and
// maps the points into crop pixel coordinates of the given size.
func (l *Landmarker) Predict(faceData []float32, cropW, cropH int) ([]Point, error) {
	copy(l.inputTensor.GetData(), faceData)

	if err := l.session.Run(); err != nil {
		return nil, fmt.Errorf("run landmarks: %w", err)
	}

	data := l.outputTensor.GetData()
	if len(data) < landmarkCount*2 {
		return nil, fmt.Errorf("unexpected output size: %d", len(data))
	}

	points := make([]Point, landmarkCount)
	for i := 0; i < landmarkCount; i++ {
		points[i] = Point{
			X: (data[i*2] + 1) * float32(cropW) / 2,
			Y: (data[i*2+1] + 1) * float32(cropH) / 2,
		}
	}
	return points, nil
}

// InputSize returns the expected face crop dimensions.
func (l *Landmarker) InputSize() (int, int) {
	return l.inputW, l.inputH
}

func (l *Landmarker) Close() {
	if l.session != nil {
		l.session.Destroy()
	}
	if l.inputTensor != nil {
		l.inputTensor.Destroy()
	}
	if l.outputTensor != nil {
		l.outputTensor.Destroy()
	}
}
