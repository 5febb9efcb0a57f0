package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/attendance/internal/api/handlers"
	"github.com/your-org/attendance/internal/api/ws"
	"github.com/your-org/attendance/internal/attendance"
	"github.com/your-org/attendance/internal/auth"
	"github.com/your-org/attendance/internal/queue"
	"github.com/your-org/attendance/internal/recognize"
	"github.com/your-org/attendance/internal/storage"
)

type RouterConfig struct {
	APIKey   string
	DB       *storage.PostgresStore
	MinIO    *storage.MinIOStore
	Producer *queue.Producer
	Hub      *ws.Hub
	Session  *ws.SessionHandler
	Cache    *recognize.Cache
	Debounce *attendance.Debounce
	Pipeline *attendance.Pipeline
	// Analyzer extracts encodings for the enrollment path.
	Analyzer attendance.Analyzer
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 (with auth)
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket: terminal sessions and the dashboard feed
	v1.GET("/ws", cfg.Session.HandleWS)
	v1.GET("/ws/feed", cfg.Hub.HandleWS)

	// Employees
	employeeH := handlers.NewEmployeeHandler(cfg.DB, cfg.MinIO, cfg.Cache, cfg.Debounce, cfg.Analyzer)
	v1.POST("/employees", employeeH.Register)
	v1.GET("/employees", employeeH.List)
	v1.GET("/employees/:id", employeeH.Get)
	v1.DELETE("/employees/:id", employeeH.Delete)
	v1.PUT("/employees/:id/shift", employeeH.AssignShift)

	// Attendance
	attendanceH := handlers.NewAttendanceHandler(cfg.DB, cfg.Pipeline)
	v1.POST("/attendance/verify", attendanceH.Verify)
	v1.GET("/attendance/stats", attendanceH.Stats)
	v1.GET("/attendance/reports", attendanceH.Reports)

	// Shifts & settings
	shiftH := handlers.NewShiftHandler(cfg.DB)
	v1.POST("/shifts", shiftH.Create)
	v1.GET("/shifts", shiftH.List)
	v1.DELETE("/shifts/:id", shiftH.Delete)
	v1.GET("/settings", shiftH.GetSettings)
	v1.PUT("/settings", shiftH.UpdateSettings)

	return r
}
