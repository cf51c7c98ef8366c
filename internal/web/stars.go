package web

import "math/rand/v2"

// Particle describes one star of the background field.
type Particle struct {
	LeftPct  float64
	TopPct   float64
	SizePx   float64
	DelaySec float64
}

// NewStarField returns n randomly placed stars. Sizes are in [0, 2) px and
// twinkle delays in [0, 3) s.
func NewStarField(n int, rng *rand.Rand) []Particle {
	if n <= 0 {
		return nil
	}
	stars := make([]Particle, n)
	for i := range stars {
		stars[i] = Particle{
			LeftPct:  rng.Float64() * 100,
			TopPct:   rng.Float64() * 100,
			SizePx:   rng.Float64() * 2,
			DelaySec: rng.Float64() * 3,
		}
	}
	return stars
}
