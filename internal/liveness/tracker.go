// Package liveness implements the per-session eye-blink state machine
// that gates recognition. A session counts as live only while a real
// blink has been observed recently; a static photo held to the camera
// never blinks and stays gated.
package liveness

import "time"

// Config controls blink detection and liveness decay.
type Config struct {
	// EARThreshold is the eye-aspect-ratio below which eyes count as
	// closed for the current frame.
	EARThreshold float64
	// ConsecFrames is how many consecutive closed frames a blink
	// requires before the reopening transition counts it.
	ConsecFrames int
	// Timeout is how long liveness holds after the last blink.
	Timeout time.Duration
}

// DefaultConfig returns the standard blink parameters.
func DefaultConfig() Config {
	return Config{
		EARThreshold: 0.25,
		ConsecFrames: 3,
		Timeout:      5 * time.Second,
	}
}

// Tracker is the blink state machine for one connected session. It is
// exclusively owned by that session and needs no locking.
type Tracker struct {
	cfg         Config
	closedRun   int
	totalBlinks int
	lastBlink   time.Time
	blinked     bool
}

func NewTracker(cfg Config) *Tracker {
	if cfg.EARThreshold == 0 {
		cfg = DefaultConfig()
	}
	return &Tracker{cfg: cfg}
}

// Observe feeds one frame's eye-aspect-ratio into the state machine.
// A closed run of at least ConsecFrames followed by reopening counts
// as one blink and refreshes liveness.
func (t *Tracker) Observe(ear float64, now time.Time) {
	if ear < t.cfg.EARThreshold {
		t.closedRun++
		return
	}

	if t.closedRun >= t.cfg.ConsecFrames {
		t.totalBlinks++
		t.lastBlink = now
		t.blinked = true
	}
	t.closedRun = 0
}

// ObserveNoFace handles a frame with no detectable landmarks. The blink
// state is deliberately left untouched; a dropped detection mid-blink
// should not reset the closed run.
func (t *Tracker) ObserveNoFace() {}

// IsLive reports whether a blink happened within the timeout window.
func (t *Tracker) IsLive(now time.Time) bool {
	return t.blinked && now.Sub(t.lastBlink) < t.cfg.Timeout
}

// TotalBlinks returns the number of blinks seen this session.
func (t *Tracker) TotalBlinks() int {
	return t.totalBlinks
}

// LastBlink returns when the most recent blink completed.
func (t *Tracker) LastBlink() time.Time {
	return t.lastBlink
}
