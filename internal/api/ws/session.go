package ws

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/your-org/attendance/internal/attendance"
	"github.com/your-org/attendance/internal/liveness"
	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/observability"
	"github.com/your-org/attendance/internal/vision"
	"github.com/your-org/attendance/pkg/dto"
)

// SessionHandler upgrades terminal connections. Each connection owns
// its own blink tracker, so one kiosk blinking never unlocks another.
type SessionHandler struct {
	pipeline    *attendance.Pipeline
	livenessCfg liveness.Config
}

func NewSessionHandler(pipeline *attendance.Pipeline, cfg liveness.Config) *SessionHandler {
	return &SessionHandler{pipeline: pipeline, livenessCfg: cfg}
}

// HandleWS runs one terminal session: read a frame, answer with one
// attendance result, repeat until the client disconnects. Frames are
// processed sequentially per connection.
func (s *SessionHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("session upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	observability.ActiveSessions.Inc()
	defer observability.ActiveSessions.Dec()

	tracker := liveness.NewTracker(s.livenessCfg)
	ctx := c.Request.Context()

	for {
		var req dto.FrameRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		if req.Type != "process_frame" {
			continue
		}

		data, err := vision.DecodeDataURI(req.Frame)
		if err != nil {
			s.writeResult(conn, dto.AttendanceResult{
				Type:    "attendance_result",
				Kind:    string(models.OutcomeNoFaceDetected),
				Message: "invalid frame: " + err.Error(),
			})
			continue
		}

		img, err := vision.DecodeImage(data)
		if err != nil {
			s.writeResult(conn, dto.AttendanceResult{
				Type:    "attendance_result",
				Kind:    string(models.OutcomeNoFaceDetected),
				Message: "invalid frame: " + err.Error(),
			})
			continue
		}

		observability.FramesProcessed.WithLabelValues("ws").Inc()

		outcome, err := s.pipeline.Process(ctx, tracker, img, time.Now())
		if err != nil {
			slog.Error("frame processing failed", "error", err)
			s.writeResult(conn, dto.AttendanceResult{
				Type:    "attendance_result",
				Kind:    string(models.OutcomeNoFaceDetected),
				Message: "frame processing failed",
			})
			continue
		}

		res := dto.ResultFromOutcome(outcome)
		res.Type = "attendance_result"
		s.writeResult(conn, res)
	}
}

func (s *SessionHandler) writeResult(conn *websocket.Conn, res dto.AttendanceResult) {
	if err := conn.WriteJSON(res); err != nil {
		slog.Debug("session write failed", "error", err)
	}
}
