package recognize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/attendance/internal/models"
	"github.com/your-org/attendance/internal/storage"
)

type fakeBacking struct {
	loaded  []models.EmployeeEncodings
	loadErr error
	saveErr error
	delErr  error
	saved   int
	deleted []string
}

func (f *fakeBacking) LoadEncodings(ctx context.Context) ([]models.EmployeeEncodings, error) {
	return f.loaded, f.loadErr
}

func (f *fakeBacking) SaveEncodings(ctx context.Context, id, name string, encodings [][]float32, photoKeys []string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved++
	return nil
}

func (f *fakeBacking) DeleteEmployee(ctx context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestLoadSkipsEmptyEnrollments(t *testing.T) {
	backing := &fakeBacking{loaded: []models.EmployeeEncodings{
		{ID: "e1", Name: "Ann", Encodings: [][]float32{{1, 0}}},
		{ID: "e2", Name: "Bob"}, // no encodings
	}}
	cache := NewCache(backing)

	n, err := cache.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, ok := cache.Get("e2")
	require.False(t, ok)
}

func TestUpsertWritesThrough(t *testing.T) {
	backing := &fakeBacking{}
	cache := NewCache(backing)

	err := cache.Upsert(context.Background(), "e1", "Ann", [][]float32{{1, 0}}, []string{"k1"})
	require.NoError(t, err)
	require.Equal(t, 1, backing.saved)

	ident, ok := cache.Get("e1")
	require.True(t, ok)
	require.Equal(t, "Ann", ident.Name)
}

func TestUpsertStoreFailureLeavesCacheUntouched(t *testing.T) {
	backing := &fakeBacking{saveErr: errors.New("db down")}
	cache := NewCache(backing)

	err := cache.Upsert(context.Background(), "e1", "Ann", [][]float32{{1, 0}}, nil)
	require.Error(t, err)
	require.Equal(t, 0, cache.Len())
}

func TestUpsertRejectsEmptyEncodings(t *testing.T) {
	backing := &fakeBacking{}
	cache := NewCache(backing)

	err := cache.Upsert(context.Background(), "e1", "Ann", nil, nil)
	require.Error(t, err)
	require.Equal(t, 0, backing.saved)
}

func TestRemoveDeletesStoreFirst(t *testing.T) {
	backing := &fakeBacking{}
	cache := NewCache(backing)
	require.NoError(t, cache.Upsert(context.Background(), "e1", "Ann", [][]float32{{1, 0}}, nil))

	require.NoError(t, cache.Remove(context.Background(), "e1"))
	require.Equal(t, []string{"e1"}, backing.deleted)
	require.Equal(t, 0, cache.Len())
}

func TestRemoveKeepsNotFoundDistinguishable(t *testing.T) {
	backing := &fakeBacking{delErr: storage.ErrEmployeeNotFound}
	cache := NewCache(backing)

	err := cache.Remove(context.Background(), "ghost")
	require.ErrorIs(t, err, storage.ErrEmployeeNotFound)
}

func TestRemoveStoreFailureKeepsIdentity(t *testing.T) {
	backing := &fakeBacking{}
	cache := NewCache(backing)
	require.NoError(t, cache.Upsert(context.Background(), "e1", "Ann", [][]float32{{1, 0}}, nil))

	backing.delErr = errors.New("db down")
	require.Error(t, cache.Remove(context.Background(), "e1"))

	_, ok := cache.Get("e1")
	require.True(t, ok)
}
