// Package optim implements optimization algorithms for training networks
// built on the scalar engine.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read each parameter's accumulated gradient and update its value
// in place. Parameters must be leaves of the engine graph.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
//
//	for epoch := range epochs {
//	    mark := g.Mark()
//	    optimizer.ZeroGrad()
//	    loss := computeLoss(model, data)
//	    loss.Backward()
//	    optimizer.Step()
//	    g.Release(mark)
//	}
package optim

import "github.com/born-ml/minigrad/internal/engine"

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter from its current gradient.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// This should be called before each backward pass to prevent
	// gradient accumulation from previous iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// zeroGrad resets the gradients of params.
func zeroGrad(params []engine.Value) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
