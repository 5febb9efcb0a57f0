package recognize

import "math"

// Match is the selected identity for a probe encoding.
type Match struct {
	ID           string
	Name         string
	MeanDistance float64
}

// Match scans every cached identity against the probe encoding. An
// identity qualifies when any of its stored encodings is within
// tolerance; among qualifiers the lowest mean distance wins, and only
// if that mean is itself strictly below tolerance.
func (c *Cache) Match(probe []float32, tolerance float64) (Match, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	best := Match{MeanDistance: tolerance}
	found := false

	for _, ident := range c.byID {
		anyWithin := false
		var sum float64
		for _, enc := range ident.Encodings {
			d := euclideanDistance(probe, enc)
			sum += d
			if d <= tolerance {
				anyWithin = true
			}
		}
		if !anyWithin {
			continue
		}

		mean := sum / float64(len(ident.Encodings))
		if mean < best.MeanDistance {
			best = Match{ID: ident.ID, Name: ident.Name, MeanDistance: mean}
			found = true
		}
	}

	return best, found
}

func euclideanDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
