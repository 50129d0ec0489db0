// Package nn implements a small neural-network layer on top of the scalar
// autodiff engine.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Neuron, Layer, MLP: fully connected building blocks
//   - Initializer: weight initialisation policy (Uniform)
//   - Loss functions: MSELoss, HingeLoss
//
// Every parameter is a leaf of the engine graph passed to the constructor,
// so parameters and activations share one arena.
package nn

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/engine"
)

// Module is the base interface for all neural network components.
//
// Parameters must return the same leaves in the same order on every call;
// optimizers and checkpoints rely on it.
type Module interface {
	// Parameters returns all trainable leaves of this module.
	Parameters() []engine.Value

	// NamedParameters returns the same leaves as Parameters, in the same
	// order, each with a stable dotted name (e.g. "layers.0.neurons.1.w.2").
	NamedParameters() []NamedParameter
}

// NamedParameter pairs a parameter with its name inside a module.
type NamedParameter struct {
	Name  string
	Value engine.Value
}

// ZeroGrad resets the gradient of every parameter of m.
//
// This should be called before each backward pass to prevent
// accumulation from previous iterations.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// StateDict returns the current value of every parameter of m by name.
func StateDict(m Module) map[string]float64 {
	named := m.NamedParameters()
	state := make(map[string]float64, len(named))
	for _, p := range named {
		state[p.Name] = p.Value.Data()
	}
	return state
}

// LoadStateDict overwrites the parameters of m from state.
//
// Returns an error wrapping ErrMissingParameter if any parameter of m has no
// entry. Extra entries are ignored.
func LoadStateDict(m Module, state map[string]float64) error {
	named := m.NamedParameters()
	for _, p := range named {
		if _, ok := state[p.Name]; !ok {
			return fmt.Errorf("load state: %q: %w", p.Name, ErrMissingParameter)
		}
	}
	for _, p := range named {
		p.Value.SetData(state[p.Name])
	}
	return nil
}

// prefixed renames ps under prefix.
func prefixed(prefix string, ps []NamedParameter) []NamedParameter {
	for i := range ps {
		ps[i].Name = prefix + "." + ps[i].Name
	}
	return ps
}
