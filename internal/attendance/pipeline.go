package attendance

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/your-org/attendance/internal/liveness"
	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/observability"
	"github.com/your-org/attendance/internal/recognize"
)

// Analyzer extracts per-frame vision signals. *vision.Models satisfies
// it; tests substitute a fake.
type Analyzer interface {
	EyeState(img image.Image) (float64, bool, error)
	Encoding(img image.Image) ([]float32, bool, error)
}

// Publisher emits attendance events after a row is persisted. Nil
// publisher disables publishing.
type Publisher interface {
	PublishAttendance(ctx context.Context, employeeID string, data interface{}) error
}

// PipelineOptions tune the recognition stage.
type PipelineOptions struct {
	// MatchTolerance is the euclidean distance below which an encoding
	// counts as the same person.
	MatchTolerance float64
	// StoreTimeout bounds record-store work per frame so a stalled
	// database cannot freeze a terminal.
	StoreTimeout time.Duration
}

// Pipeline runs one frame through liveness gating, matching, debounce
// and the attendance engine, producing a single outcome.
type Pipeline struct {
	analyzer  Analyzer
	cache     *recognize.Cache
	debounce  *Debounce
	engine    *Engine
	publisher Publisher
	opts      PipelineOptions
	logger    *slog.Logger
}

func NewPipeline(analyzer Analyzer, cache *recognize.Cache, debounce *Debounce, engine *Engine, publisher Publisher, opts PipelineOptions, logger *slog.Logger) *Pipeline {
	if opts.MatchTolerance == 0 {
		opts.MatchTolerance = 0.5
	}
	if opts.StoreTimeout == 0 {
		opts.StoreTimeout = 5 * time.Second
	}
	return &Pipeline{
		analyzer:  analyzer,
		cache:     cache,
		debounce:  debounce,
		engine:    engine,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// Process runs one frame. A non-nil tracker enables the blink liveness
// gate; passing nil bypasses it (trusted enrollment and verify paths).
// The returned error covers inference failures only; attendance store
// failures degrade into an Error status inside the outcome.
func (p *Pipeline) Process(ctx context.Context, tracker *liveness.Tracker, img image.Image, now time.Time) (models.Outcome, error) {
	live := true
	if tracker != nil {
		ear, found, err := p.analyzer.EyeState(img)
		if err != nil {
			return models.Outcome{}, err
		}
		if found {
			tracker.Observe(ear, now)
		} else {
			tracker.ObserveNoFace()
		}
		live = tracker.IsLive(now)
		if !live {
			observability.LivenessFailures.Inc()
			return models.Outcome{Kind: models.OutcomeLivenessFailed}, nil
		}
	}

	encoding, found, err := p.analyzer.Encoding(img)
	if err != nil {
		return models.Outcome{}, err
	}
	if !found {
		return models.Outcome{Kind: models.OutcomeNoFaceDetected, IsLive: live}, nil
	}

	match, ok := p.cache.Match(encoding, p.opts.MatchTolerance)
	if !ok {
		observability.UnknownFaces.Inc()
		return models.Outcome{Kind: models.OutcomeUnknownFace, IsLive: live}, nil
	}
	observability.FacesMatched.Inc()

	outcome := models.Outcome{
		Kind:       models.OutcomeMatched,
		IsLive:     live,
		EmployeeID: match.ID,
		Name:       match.Name,
		Time:       now,
	}

	if !p.debounce.Accept(match.ID, now) {
		outcome.Status = models.StatusCooldown
		return outcome, nil
	}

	storeCtx, cancel := context.WithTimeout(ctx, p.opts.StoreTimeout)
	defer cancel()

	decision := p.engine.Decide(storeCtx, match.ID, now)
	outcome.Status = decision.Status

	if decision.Persisted {
		p.publish(ctx, match, decision.Status, now)
	}
	return outcome, nil
}

func (p *Pipeline) publish(ctx context.Context, match recognize.Match, status models.Status, now time.Time) {
	if p.publisher == nil {
		return
	}
	event := models.AttendanceEvent{
		EmployeeID: match.ID,
		Name:       match.Name,
		Status:     status,
		Timestamp:  now.UTC(),
	}
	if err := p.publisher.PublishAttendance(ctx, match.ID, event); err != nil && p.logger != nil {
		p.logger.Warn("publish attendance event failed",
			slog.String("employee_id", match.ID),
			slog.Any("error", err))
	}
}
