package nn

import (
	"math"
	"math/rand"
)

// Initializer produces initial parameter values.
type Initializer interface {
	Sample() float64
}

// Uniform samples from [Low, High).
//
// Rand is the random source; nil uses the global math/rand source.
type Uniform struct {
	Low  float64
	High float64
	Rand *rand.Rand
}

// NewUniform creates a seeded uniform initializer over [low, high).
func NewUniform(low, high float64, seed int64) *Uniform {
	return &Uniform{
		Low:  low,
		High: high,
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// Sample returns the next value.
func (u *Uniform) Sample() float64 {
	var r float64
	if u.Rand != nil {
		r = u.Rand.Float64()
	} else {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		r = rand.Float64()
	}
	return u.Low + (u.High-u.Low)*r
}

// Xavier returns a seeded uniform initializer with the Glorot bound
// sqrt(6 / (fanIn + fanOut)).
func Xavier(fanIn, fanOut int, seed int64) *Uniform {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return NewUniform(-bound, bound, seed)
}

// Constant always returns its own value. Useful for tests and bias terms.
type Constant float64

// Sample returns c.
func (c Constant) Sample() float64 {
	return float64(c)
}

// defaultInit is U(-1, 1) over the global source.
func defaultInit(init Initializer) Initializer {
	if init == nil {
		return &Uniform{Low: -1, High: 1}
	}
	return init
}
