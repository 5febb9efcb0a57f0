// Package attendance decides and records check-in/check-out transitions
// for recognized employees.
package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/observability"
)

// Store is the persistence the engine needs: today's history, the
// append-only log, and the schedule sources.
type Store interface {
	RecentLogs(ctx context.Context, employeeID string, since time.Time) ([]models.AttendanceLog, error)
	InsertLog(ctx context.Context, log *models.AttendanceLog) error
	GetSettings(ctx context.Context) (models.Settings, error)
	GetEmployeeShift(ctx context.Context, employeeID string) (*models.Shift, error)
}

// Options tune the decision windows.
type Options struct {
	// Lookback bounds how far back history is read when classifying
	// the employee's current phase.
	Lookback time.Duration
	// MinPresence is the minimum time between a check-in and the
	// earliest accepted check-out.
	MinPresence time.Duration
}

// DefaultOptions returns the standard decision windows.
func DefaultOptions() Options {
	return Options{
		Lookback:    24 * time.Hour,
		MinPresence: 10 * time.Minute,
	}
}

// Decision is the outcome of one engine run.
type Decision struct {
	Status models.Status
	// Persisted is true when a log row was written for this decision.
	Persisted bool
}

// Engine is the shift-aware attendance state machine. Decisions for the
// same employee are serialized with a per-employee lock so two sessions
// recognizing one person concurrently cannot both read the pre-insert
// history.
type Engine struct {
	store  Store
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEngine(store Store, opts Options, logger *slog.Logger) *Engine {
	if opts.Lookback == 0 {
		opts.Lookback = DefaultOptions().Lookback
	}
	if opts.MinPresence == 0 {
		opts.MinPresence = DefaultOptions().MinPresence
	}
	return &Engine{
		store:  store,
		opts:   opts,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (e *Engine) employeeLock(id string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	return l
}

// Decide classifies the employee's current attendance phase and, for
// transitions, appends the log row. A store failure degrades to
// StatusError; the caller still has the identity to show.
func (e *Engine) Decide(ctx context.Context, employeeID string, now time.Time) Decision {
	lock := e.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := e.resolveSchedule(ctx, employeeID)
	if err != nil {
		return e.fail(employeeID, "resolve schedule", err)
	}

	start, end, err := sched.Boundaries(now)
	if err != nil {
		return e.fail(employeeID, "schedule boundaries", err)
	}

	logs, err := e.store.RecentLogs(ctx, employeeID, now.Add(-e.opts.Lookback))
	if err != nil {
		return e.fail(employeeID, "read history", err)
	}

	// Cycle flags only consider today's rows. The lookback window may
	// reach into yesterday, and a completed cycle there must not block
	// this morning's check-in.
	y, m, d := now.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	var hasIn, hasOut bool
	var lastIn time.Time
	for _, l := range logs {
		if l.Timestamp.Before(dayStart) {
			continue
		}
		switch {
		case l.Status.IsCheckIn():
			hasIn = true
			if l.Timestamp.After(lastIn) {
				lastIn = l.Timestamp
			}
		case l.Status.IsCheckOut():
			hasOut = true
		}
	}

	lateBy := start.Add(sched.LateTolerance)

	var status models.Status
	switch {
	case !hasIn:
		status = models.StatusCheckedIn
		if now.After(lateBy) {
			status = models.StatusLate
		}
	case hasIn && hasOut:
		return Decision{Status: models.StatusAlreadyCheckedOut}
	case !now.Before(end):
		status = models.StatusCheckedOut
	case now.Before(start):
		// Checked in before the shift even starts; nothing to close yet.
		return Decision{Status: models.StatusAlreadyCheckedIn}
	case now.Sub(lastIn) < e.opts.MinPresence:
		return Decision{Status: models.StatusAlreadyInRecent}
	default:
		// Mid-shift departure after the minimum presence.
		status = models.StatusCheckedOut
	}

	row := &models.AttendanceLog{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Timestamp:  now.UTC(),
		Status:     status,
		ShiftID:    sched.ShiftID,
	}
	if err := e.store.InsertLog(ctx, row); err != nil {
		return e.fail(employeeID, "insert log", err)
	}

	observability.AttendanceEvents.WithLabelValues(string(status)).Inc()
	return Decision{Status: status, Persisted: true}
}

func (e *Engine) resolveSchedule(ctx context.Context, employeeID string) (Schedule, error) {
	shift, err := e.store.GetEmployeeShift(ctx, employeeID)
	if err != nil {
		return Schedule{}, fmt.Errorf("employee shift: %w", err)
	}
	if shift != nil {
		return scheduleFromShift(shift), nil
	}

	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		return Schedule{}, fmt.Errorf("settings: %w", err)
	}
	return scheduleFromSettings(settings), nil
}

func (e *Engine) fail(employeeID, op string, err error) Decision {
	observability.StoreErrors.WithLabelValues(op).Inc()
	if e.logger != nil {
		e.logger.Error("attendance decision failed",
			slog.String("employee_id", employeeID),
			slog.String("op", op),
			slog.Any("error", err))
	}
	return Decision{Status: models.StatusError}
}
