package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// eyeAt builds six eye landmarks with the given horizontal width and
// vertical opening.
func eyeAt(cx, cy, width, opening float32) [6]Point {
	half := width / 2
	v := opening / 2
	return [6]Point{
		{X: cx - half, Y: cy},     // left corner
		{X: cx - half/2, Y: cy - v},
		{X: cx + half/2, Y: cy - v},
		{X: cx + half, Y: cy},     // right corner
		{X: cx + half/2, Y: cy + v},
		{X: cx - half/2, Y: cy + v},
	}
}

func TestEyeAspectRatioOpenEye(t *testing.T) {
	// Opening of 12 over a width of 40: EAR = (12+12)/(2*40) = 0.3
	ear := EyeAspectRatio(eyeAt(100, 100, 40, 12))
	require.InDelta(t, 0.3, ear, 1e-6)
}

func TestEyeAspectRatioClosedEye(t *testing.T) {
	ear := EyeAspectRatio(eyeAt(100, 100, 40, 2))
	require.InDelta(t, 0.05, ear, 1e-6)
	require.Less(t, ear, 0.25)
}

func TestEyeAspectRatioDegenerateWidth(t *testing.T) {
	// All points collapsed; must not divide by zero.
	var eye [6]Point
	require.Equal(t, 0.0, EyeAspectRatio(eye))
}

func TestMeanEyeAspectRatio(t *testing.T) {
	points := make([]Point, landmarkCount)
	open := eyeAt(60, 80, 40, 12)
	closed := eyeAt(130, 80, 40, 4)
	for i, idx := range leftEyeIdx {
		points[idx] = open[i]
	}
	for i, idx := range rightEyeIdx {
		points[idx] = closed[i]
	}

	ear, ok := MeanEyeAspectRatio(points)
	require.True(t, ok)
	// Mean of 0.3 and 0.1.
	require.InDelta(t, 0.2, ear, 1e-6)
}

func TestMeanEyeAspectRatioTooFewPoints(t *testing.T) {
	_, ok := MeanEyeAspectRatio(make([]Point, 10))
	require.False(t, ok)
}
