// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on top of the scalar
// engine.
//
// # Overview
//
// This package contains:
//   - Modules: Neuron, Layer, MLP
//   - Loss functions: MSELoss, HingeLoss
//   - Initialization: Uniform, Xavier, Constant
//   - Utilities: Module interface, StateDict, LoadStateDict, Checkpoint
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minigrad/engine"
//	    "github.com/born-ml/minigrad/nn"
//	)
//
//	func main() {
//	    g := engine.NewGraph()
//
//	    // 3 inputs, two hidden layers of 4, one output
//	    model := nn.NewMLP(g, 3, []int{4, 4, 1}, nil)
//
//	    out, err := model.Forward(g.Leaves(2, 3, -1))
//	}
//
// # Modules
//
// Neuron: weighted sum of its inputs plus a bias, optionally passed through ReLU
//
// Layer: independent neurons sharing the same input
//
// MLP: layers chained together, ReLU everywhere except the output layer
//
// Parameters of every module are leaves of the graph the module was built
// on. They are never released by Graph.Release as long as the module was
// built before the Mark was taken.
//
// # Checkpoints
//
// Checkpoint saves model parameters, optimizer state and training metadata
// to a single checksummed file:
//
//	ckpt := &nn.Checkpoint{Model: model, Optimizer: optimizer, Epoch: 10}
//	err := ckpt.Save("model.mgrd")
//
//	loaded, err := nn.LoadCheckpoint("model.mgrd", model, optimizer)
package nn
