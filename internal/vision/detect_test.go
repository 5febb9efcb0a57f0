package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIOU(t *testing.T) {
	a := [4]float32{0, 0, 10, 10}

	require.InDelta(t, 1.0, iou(a, a), 1e-6)
	require.InDelta(t, 0.0, iou(a, [4]float32{20, 20, 30, 30}), 1e-6)

	// Half-overlapping boxes: intersection 50, union 150.
	b := [4]float32{5, 0, 15, 10}
	require.InDelta(t, 1.0/3.0, iou(a, b), 1e-4)
}

func TestNonMaxSuppressDropsOverlaps(t *testing.T) {
	dets := []Detection{
		{BBox: [4]float32{0, 0, 10, 10}, Confidence: 0.9},
		{BBox: [4]float32{1, 1, 11, 11}, Confidence: 0.8}, // heavy overlap with the first
		{BBox: [4]float32{50, 50, 60, 60}, Confidence: 0.7},
	}

	kept := nonMaxSuppress(dets, 0.4)
	require.Len(t, kept, 2)
	require.InDelta(t, 0.9, float64(kept[0].Confidence), 1e-6)
	require.InDelta(t, 0.7, float64(kept[1].Confidence), 1e-6)
}

func TestNonMaxSuppressKeepsDistinctFaces(t *testing.T) {
	dets := []Detection{
		{BBox: [4]float32{0, 0, 10, 10}, Confidence: 0.9},
		{BBox: [4]float32{30, 0, 40, 10}, Confidence: 0.85},
	}

	require.Len(t, nonMaxSuppress(dets, 0.4), 2)
}

func TestClampF(t *testing.T) {
	require.Equal(t, float32(0), clampF(-5, 0, 100))
	require.Equal(t, float32(100), clampF(640, 0, 100))
	require.Equal(t, float32(42), clampF(42, 0, 100))
}
