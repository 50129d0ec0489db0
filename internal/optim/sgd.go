package optim

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/engine"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []engine.Value
	lr         float64
	momentum   float64
	velocities []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over params.
func NewSGD(params []engine.Value, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([]float64, len(params)),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for i, p := range s.params {
		grad := p.Grad()
		if s.momentum == 0 {
			p.SetData(p.Data() - s.lr*grad)
			continue
		}
		s.velocities[i] = s.momentum*s.velocities[i] + grad
		p.SetData(p.Data() - s.lr*s.velocities[i])
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the velocity buffers keyed "velocity.<index>".
// Without momentum, returns an empty map.
func (s *SGD) StateDict() map[string]float64 {
	state := make(map[string]float64)
	if s.momentum == 0 {
		return state
	}
	for i, v := range s.velocities {
		state[fmt.Sprintf("velocity.%d", i)] = v
	}
	return state
}

// LoadStateDict restores velocity buffers. Missing entries reset to zero.
func (s *SGD) LoadStateDict(state map[string]float64) {
	for i := range s.velocities {
		s.velocities[i] = state[fmt.Sprintf("velocity.%d", i)]
	}
}
