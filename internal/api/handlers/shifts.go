package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/storage"
	"github.com/your-org/attendance/pkg/dto"
)

type ShiftHandler struct {
	db *storage.PostgresStore
}

func NewShiftHandler(db *storage.PostgresStore) *ShiftHandler {
	return &ShiftHandler{db: db}
}

func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sh := &models.Shift{
		Name:                 req.Name,
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		LateToleranceMinutes: req.LateToleranceMinutes,
	}
	if err := h.db.CreateShift(c.Request.Context(), sh); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, shiftResponse(sh))
}

func (h *ShiftHandler) List(c *gin.Context) {
	shifts, err := h.db.ListShifts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		resp = append(resp, shiftResponse(&shifts[i]))
	}

	c.JSON(http.StatusOK, gin.H{"shifts": resp, "total": len(resp)})
}

func (h *ShiftHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shift id"})
		return
	}

	if err := h.db.DeleteShift(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// GetSettings returns the global default schedule.
func (h *ShiftHandler) GetSettings(c *gin.Context) {
	st, err := h.db.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SettingsPayload{
		StartTime:            st.StartTime,
		EndTime:              st.EndTime,
		LateToleranceMinutes: st.LateToleranceMinutes,
	})
}

// UpdateSettings replaces the global default schedule. Changes apply to
// the next decision; past rows are never rewritten.
func (h *ShiftHandler) UpdateSettings(c *gin.Context) {
	var req dto.SettingsPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := models.Settings{
		StartTime:            req.StartTime,
		EndTime:              req.EndTime,
		LateToleranceMinutes: req.LateToleranceMinutes,
	}
	if err := h.db.UpsertSettings(c.Request.Context(), st); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, req)
}

func shiftResponse(sh *models.Shift) dto.ShiftResponse {
	return dto.ShiftResponse{
		ID:                   sh.ID,
		Name:                 sh.Name,
		StartTime:            sh.StartTime,
		EndTime:              sh.EndTime,
		LateToleranceMinutes: sh.LateToleranceMinutes,
		CreatedAt:            sh.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
