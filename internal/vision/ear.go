package vision

import "math"

// Eye landmark indices in the 2d106det point layout, ordered
// p1..p6: outer corner, two upper-lid points, inner corner, two
// lower-lid points. p1/p4 span the eye horizontally; p2/p6 and p3/p5
// are the vertical pairs.
var (
	leftEyeIdx  = [6]int{35, 41, 40, 39, 37, 36}
	rightEyeIdx = [6]int{89, 95, 94, 93, 91, 90}
)

// EyeAspectRatio computes the EAR of one eye from its six contour
// points: (|p2-p6| + |p3-p5|) / (2 * |p1-p4|). The ratio drops sharply
// while the eye is closed.
func EyeAspectRatio(eye [6]Point) float64 {
	a := dist(eye[1], eye[5])
	b := dist(eye[2], eye[4])
	c := dist(eye[0], eye[3])
	if c == 0 {
		return 0
	}
	return (a + b) / (2 * c)
}

// MeanEyeAspectRatio extracts both eyes from a full 106-point landmark
// set and returns the averaged EAR.
func MeanEyeAspectRatio(points []Point) (float64, bool) {
	if len(points) < landmarkCount {
		return 0, false
	}
	var left, right [6]Point
	for i := 0; i < 6; i++ {
		left[i] = points[leftEyeIdx[i]]
		right[i] = points[rightEyeIdx[i]]
	}
	return (EyeAspectRatio(left) + EyeAspectRatio(right)) / 2, true
}

func dist(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
