// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/minigrad/engine"
	"github.com/born-ml/minigrad/internal/nn"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// NamedParameter pairs a parameter with its hierarchical name.
type NamedParameter = nn.NamedParameter

// Errors returned by modules and checkpoints.
var (
	ErrInputSize        = nn.ErrInputSize
	ErrMissingParameter = nn.ErrMissingParameter
	ErrNotCheckpoint    = nn.ErrNotCheckpoint
)

// Modules

// Neuron computes a weighted sum of its inputs plus a bias.
type Neuron = nn.Neuron

// NewNeuron creates a neuron with nin weights drawn from init and a zero
// bias. A nil init samples uniformly from [-1, 1].
func NewNeuron(g *engine.Graph, nin int, nonlin bool, init Initializer) *Neuron {
	return nn.NewNeuron(g, nin, nonlin, init)
}

// Layer is a set of neurons that share the same input.
type Layer = nn.Layer

// NewLayer creates a layer of nout neurons with nin inputs each.
func NewLayer(g *engine.Graph, nin, nout int, nonlin bool, init Initializer) *Layer {
	return nn.NewLayer(g, nin, nout, nonlin, init)
}

// MLP is a multi-layer perceptron.
type MLP = nn.MLP

// NewMLP creates an MLP with nin inputs and one layer per entry of nouts.
//
// Example:
//
//	g := engine.NewGraph()
//	model := nn.NewMLP(g, 2, []int{16, 16, 1}, nn.NewUniform(-1, 1, 42))
func NewMLP(g *engine.Graph, nin int, nouts []int, init Initializer) *MLP {
	return nn.NewMLP(g, nin, nouts, init)
}

// Initialization

// Initializer produces initial parameter values.
type Initializer = nn.Initializer

// Uniform samples from [Low, High).
type Uniform = nn.Uniform

// Constant initializes every parameter to the same value.
type Constant = nn.Constant

// NewUniform creates a seeded uniform initializer.
func NewUniform(low, high float64, seed int64) *Uniform {
	return nn.NewUniform(low, high, seed)
}

// Xavier creates a seeded Xavier/Glorot uniform initializer.
func Xavier(fanIn, fanOut int, seed int64) *Uniform {
	return nn.Xavier(fanIn, fanOut, seed)
}

// Loss functions

// MSELoss returns the mean squared error between pred and target.
func MSELoss(pred, target []engine.Value) (engine.Value, error) {
	return nn.MSELoss(pred, target)
}

// HingeLoss returns the mean max-margin loss for labels in {-1, +1}.
func HingeLoss(scores []engine.Value, labels []float64) (engine.Value, error) {
	return nn.HingeLoss(scores, labels)
}

// Utilities

// ZeroGrad clears the gradients of all parameters of m.
func ZeroGrad(m Module) {
	nn.ZeroGrad(m)
}

// StateDict returns the current parameter values of m keyed by name.
func StateDict(m Module) map[string]float64 {
	return nn.StateDict(m)
}

// LoadStateDict assigns parameter values of m from state.
func LoadStateDict(m Module, state map[string]float64) error {
	return nn.LoadStateDict(m, state)
}

// Checkpoints

// Checkpoint represents a complete training state snapshot.
type Checkpoint = nn.Checkpoint

// OptimizerState represents an optimizer that can save/load its state.
type OptimizerState = nn.OptimizerState

// LoadCheckpoint restores model parameters and optimizer state from path.
func LoadCheckpoint(path string, model Module, optimizer OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, model, optimizer)
}
