package attendance

import (
	"sync"
	"time"
)

// Debounce suppresses duplicate recognition events for one employee
// across all sessions: a physical person should not double-trigger
// regardless of which camera recognized them.
type Debounce struct {
	mu       sync.Mutex
	last     map[string]time.Time
	cooldown time.Duration
}

func NewDebounce(cooldown time.Duration) *Debounce {
	return &Debounce{
		last:     make(map[string]time.Time),
		cooldown: cooldown,
	}
}

// Accept reports whether this recognition may proceed. On accept the
// timestamp is recorded immediately, so a second frame racing within
// the cooldown window cannot also pass.
func (d *Debounce) Accept(employeeID string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.last[employeeID]; ok && now.Sub(last) < d.cooldown {
		return false
	}
	d.last[employeeID] = now
	return true
}

// Forget drops the employee's entry, used when an identity is deleted.
func (d *Debounce) Forget(employeeID string) {
	d.mu.Lock()
	delete(d.last, employeeID)
	d.mu.Unlock()
}
