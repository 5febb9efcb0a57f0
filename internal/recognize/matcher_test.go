package recognize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, identities ...Identity) *Cache {
	t.Helper()
	cache := NewCache(&fakeBacking{})
	for _, id := range identities {
		require.NoError(t, cache.Upsert(context.Background(), id.ID, id.Name, id.Encodings, nil))
	}
	return cache
}

func TestMatchEmptyCache(t *testing.T) {
	cache := newTestCache(t)
	_, ok := cache.Match([]float32{1, 0, 0}, 0.5)
	require.False(t, ok)
}

func TestMatchWithinTolerance(t *testing.T) {
	cache := newTestCache(t, Identity{
		ID: "e1", Name: "Ann", Encodings: [][]float32{{1, 0, 0}},
	})

	m, ok := cache.Match([]float32{1, 0.1, 0}, 0.5)
	require.True(t, ok)
	require.Equal(t, "e1", m.ID)
	require.InDelta(t, 0.1, m.MeanDistance, 1e-6)
}

func TestMatchOutsideTolerance(t *testing.T) {
	cache := newTestCache(t, Identity{
		ID: "e1", Name: "Ann", Encodings: [][]float32{{1, 0, 0}},
	})

	_, ok := cache.Match([]float32{0, 1, 0}, 0.5)
	require.False(t, ok)
}

func TestMatchPicksLowestMeanDistance(t *testing.T) {
	cache := newTestCache(t,
		Identity{ID: "far", Name: "Far", Encodings: [][]float32{{1, 0.4, 0}}},
		Identity{ID: "near", Name: "Near", Encodings: [][]float32{{1, 0.05, 0}}},
	)

	m, ok := cache.Match([]float32{1, 0, 0}, 0.5)
	require.True(t, ok)
	require.Equal(t, "near", m.ID)
}

func TestMatchOneCloseEncodingQualifiesIdentity(t *testing.T) {
	// One of three stored encodings is close; the identity qualifies
	// as long as the mean over all of them stays under tolerance.
	cache := newTestCache(t, Identity{
		ID: "e1", Name: "Ann", Encodings: [][]float32{
			{1, 0, 0},
			{1, 0.3, 0},
			{1, 0.4, 0},
		},
	})

	m, ok := cache.Match([]float32{1, 0, 0}, 0.5)
	require.True(t, ok)
	require.Equal(t, "e1", m.ID)
}

func TestMatchMeanMustBeatTolerance(t *testing.T) {
	// One encoding within tolerance, but outliers push the mean past it.
	cache := newTestCache(t, Identity{
		ID: "e1", Name: "Ann", Encodings: [][]float32{
			{1, 0, 0},
			{1, 2, 0},
			{1, 2, 0},
		},
	})

	_, ok := cache.Match([]float32{1, 0, 0}, 0.5)
	require.False(t, ok)
}
