package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FramesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "att",
		Name:      "frames_processed_total",
		Help:      "Total number of frames run through the recognition pipeline",
	}, []string{"source"})

	LivenessFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "att",
		Name:      "liveness_failures_total",
		Help:      "Frames rejected by the blink liveness gate",
	})

	FacesMatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "att",
		Name:      "faces_matched_total",
		Help:      "Frames matched to an enrolled employee",
	})

	UnknownFaces = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "att",
		Name:      "unknown_faces_total",
		Help:      "Frames with a face that matched no enrolled employee",
	})

	AttendanceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "att",
		Name:      "attendance_events_total",
		Help:      "Attendance decisions by resulting status",
	}, []string{"status"})

	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "att",
		Name:      "store_errors_total",
		Help:      "Record store failures by operation",
	}, []string{"op"})

	InferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "att",
		Name:      "inference_duration_seconds",
		Help:      "Duration of ML inference stages",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"stage"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "att",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "att",
		Name:      "active_sessions",
		Help:      "Number of connected terminal WebSocket sessions",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "att",
		Name:      "ws_connections",
		Help:      "Number of dashboard feed WebSocket connections",
	})
)
