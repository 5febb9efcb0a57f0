package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/attendance/internal/attendance"
	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/observability"
	"github.com/your-org/attendance/internal/storage"
	"github.com/your-org/attendance/internal/vision"
	"github.com/your-org/attendance/pkg/dto"
)

type AttendanceHandler struct {
	db       *storage.PostgresStore
	pipeline *attendance.Pipeline
}

func NewAttendanceHandler(db *storage.PostgresStore, pipeline *attendance.Pipeline) *AttendanceHandler {
	return &AttendanceHandler{db: db, pipeline: pipeline}
}

// Verify runs one uploaded image through matching and the attendance
// state machine, without the blink gate. Kiosks with a live camera use
// the WebSocket path instead.
func (h *AttendanceHandler) Verify(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read image failed"})
		return
	}

	img, err := vision.DecodeImage(data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "decode image: " + err.Error()})
		return
	}

	observability.FramesProcessed.WithLabelValues("http").Inc()

	outcome, err := h.pipeline.Process(c.Request.Context(), nil, img, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ResultFromOutcome(outcome))
}

// Stats summarizes today's attendance: unique employees checked in,
// late arrivals and completed check-outs since local midnight.
func (h *AttendanceHandler) Stats(c *gin.Context) {
	now := time.Now()
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	total, err := h.db.CountEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.db.LogsBetween(c.Request.Context(), dayStart.UTC(), now.UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	present := map[string]bool{}
	late := map[string]bool{}
	out := map[string]bool{}
	for _, e := range entries {
		switch {
		case e.Status == models.StatusLate:
			late[e.EmployeeID] = true
			present[e.EmployeeID] = true
		case e.Status.IsCheckIn():
			present[e.EmployeeID] = true
		case e.Status.IsCheckOut():
			out[e.EmployeeID] = true
		}
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalEmployees:  total,
		PresentToday:    len(present),
		LateToday:       len(late),
		CheckedOutToday: len(out),
	})
}

// Reports returns attendance rows for a date range, optionally filtered
// to one employee. Dates are "2006-01-02" in the server's local zone;
// the range defaults to today.
func (h *AttendanceHandler) Reports(c *gin.Context) {
	now := time.Now()
	y, m, d := now.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return
		}
		to = t.AddDate(0, 0, 1)
	}

	entries, err := h.db.LogsBetween(c.Request.Context(), from.UTC(), to.UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	employeeID := c.Query("employee_id")
	rows := make([]dto.ReportRow, 0, len(entries))
	for _, e := range entries {
		if employeeID != "" && e.EmployeeID != employeeID {
			continue
		}
		rows = append(rows, dto.ReportRow{
			EmployeeID: e.EmployeeID,
			Name:       e.Name,
			Timestamp:  e.Timestamp.Format(time.RFC3339),
			Status:     string(e.Status),
		})
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}
