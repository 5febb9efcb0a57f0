// Package recognize holds the in-memory encoding cache and the
// nearest-identity matcher.
package recognize

import (
	"context"
	"fmt"
	"sync"

	"github.com/your-org/attendance/internal/models"
)

// Backing is the durable store behind the cache. Writes go to the
// store first; the in-memory view only changes after a commit.
type Backing interface {
	LoadEncodings(ctx context.Context) ([]models.EmployeeEncodings, error)
	SaveEncodings(ctx context.Context, id, name string, encodings [][]float32, photoKeys []string) error
	DeleteEmployee(ctx context.Context, id string) error
}

// Identity is one cached enrolled employee. Encodings is never empty.
type Identity struct {
	ID        string
	Name      string
	Encodings [][]float32
}

// Cache is the write-through encoding cache shared by all sessions.
type Cache struct {
	mu    sync.RWMutex
	byID  map[string]Identity
	store Backing
}

func NewCache(store Backing) *Cache {
	return &Cache{
		byID:  make(map[string]Identity),
		store: store,
	}
}

// Load warms the cache from the record store. Employees with no stored
// encodings are skipped; the ≥1-encoding invariant holds for every
// cached identity.
func (c *Cache) Load(ctx context.Context) (int, error) {
	employees, err := c.store.LoadEncodings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load encodings: %w", err)
	}

	byID := make(map[string]Identity, len(employees))
	for _, e := range employees {
		if len(e.Encodings) == 0 {
			continue
		}
		byID[e.ID] = Identity{ID: e.ID, Name: e.Name, Encodings: e.Encodings}
	}

	c.mu.Lock()
	c.byID = byID
	c.mu.Unlock()

	return len(byID), nil
}

// Upsert commits the enrollment to the store, then applies it to the
// cache. A store failure leaves the cache untouched.
func (c *Cache) Upsert(ctx context.Context, id, name string, encodings [][]float32, photoKeys []string) error {
	if len(encodings) == 0 {
		return fmt.Errorf("identity %s: at least one encoding required", id)
	}

	if err := c.store.SaveEncodings(ctx, id, name, encodings, photoKeys); err != nil {
		return err
	}

	c.mu.Lock()
	c.byID[id] = Identity{ID: id, Name: name, Encodings: encodings}
	c.mu.Unlock()

	return nil
}

// Remove deletes the employee from the store, then from the cache.
func (c *Cache) Remove(ctx context.Context, id string) error {
	if err := c.store.DeleteEmployee(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.byID, id)
	c.mu.Unlock()

	return nil
}

// Get returns a cached identity by id.
func (c *Cache) Get(id string) (Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ident, ok := c.byID[id]
	return ident, ok
}

// Len returns the number of cached identities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
