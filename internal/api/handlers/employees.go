package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/attendance/internal/attendance"
	"github.com/your-org/attendance/internal/recognize"
	"github.com/your-org/attendance/internal/storage"
	"github.com/your-org/attendance/internal/vision"
	"github.com/your-org/attendance/pkg/dto"
)

// minEnrollmentPhotos is the smallest number of face photos accepted
// when registering an employee.
const minEnrollmentPhotos = 3

type EmployeeHandler struct {
	db       *storage.PostgresStore
	minio    *storage.MinIOStore
	cache    *recognize.Cache
	debounce *attendance.Debounce
	analyzer attendance.Analyzer
}

func NewEmployeeHandler(db *storage.PostgresStore, minio *storage.MinIOStore, cache *recognize.Cache, debounce *attendance.Debounce, analyzer attendance.Analyzer) *EmployeeHandler {
	return &EmployeeHandler{db: db, minio: minio, cache: cache, debounce: debounce, analyzer: analyzer}
}

// Register enrolls an employee from a multipart form: a name, an
// optional id, and at least three "images" files each containing a
// detectable face. Enrollment is all-or-nothing: any bad photo rejects
// the whole request and re-registration either fully replaces the old
// encodings or leaves them intact.
func (h *EmployeeHandler) Register(c *gin.Context) {
	name := c.PostForm("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	id := c.PostForm("id")
	if id == "" {
		id = uuid.New().String()
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["images"]
	if len(files) < minEnrollmentPhotos {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("at least %d photos required, got %d", minEnrollmentPhotos, len(files)),
		})
		return
	}

	encodings := make([][]float32, 0, len(files))
	photos := make([][]byte, 0, len(files))
	for i, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("read photo %d: %v", i, err)})
			return
		}

		img, err := vision.DecodeImage(data)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("decode photo %d: %v", i, err)})
			return
		}

		encoding, found, err := h.analyzer.Encoding(img)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("process photo %d: %v", i, err)})
			return
		}
		if !found {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("no face detected in photo %d", i)})
			return
		}

		encodings = append(encodings, encoding)
		photos = append(photos, data)
	}

	photoKeys := make([]string, len(photos))
	for i, data := range photos {
		key := fmt.Sprintf("employees/%s/%s.jpg", id, uuid.New())
		if err := h.minio.PutObject(c.Request.Context(), key, data, "image/jpeg"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store photo failed"})
			return
		}
		photoKeys[i] = key
	}

	if err := h.cache.Upsert(c.Request.Context(), id, name, encodings, photoKeys); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterEmployeeResponse{
		ID:            id,
		Name:          name,
		EncodingCount: len(encodings),
	})
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.db.ListEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		count := 0
		if ident, ok := h.cache.Get(e.ID); ok {
			count = len(ident.Encodings)
		}
		resp = append(resp, dto.EmployeeResponse{
			ID:            e.ID,
			Name:          e.Name,
			ShiftID:       e.ShiftID,
			EncodingCount: count,
			CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	c.JSON(http.StatusOK, gin.H{"employees": resp, "total": len(resp)})
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id := c.Param("id")
	employee, err := h.db.GetEmployee(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if employee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	count := 0
	if ident, ok := h.cache.Get(id); ok {
		count = len(ident.Encodings)
	}

	c.JSON(http.StatusOK, dto.EmployeeResponse{
		ID:            employee.ID,
		Name:          employee.Name,
		ShiftID:       employee.ShiftID,
		EncodingCount: count,
		CreatedAt:     employee.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Delete removes the employee, its cached encodings, its debounce entry
// and its stored photos. Attendance history stays.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.cache.Remove(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.debounce.Forget(id)

	if err := h.minio.DeletePrefix(c.Request.Context(), "employees/"+id+"/"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "purge photos failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AssignShift sets or clears the employee's shift.
func (h *EmployeeHandler) AssignShift(c *gin.Context) {
	id := c.Param("id")

	var req dto.AssignShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.AssignShift(c.Request.Context(), id, req.ShiftID); err != nil {
		if errors.Is(err, storage.ErrEmployeeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
