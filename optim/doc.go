// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minigrad/engine"
//	    "github.com/born-ml/minigrad/nn"
//	    "github.com/born-ml/minigrad/optim"
//	)
//
//	func main() {
//	    g := engine.NewGraph()
//	    model := nn.NewMLP(g, 2, []int{16, 1}, nil)
//
//	    // Create optimizer
//	    optimizer := optim.NewAdam(
//	        model.Parameters(),
//	        optim.AdamConfig{
//	            LR:    0.01,
//	            Betas: [2]float64{0.9, 0.999},
//	        },
//	    )
//
//	    // Training loop
//	    for epoch := range 100 {
//	        mark := g.Mark()
//	        loss := computeLoss(g, model)
//
//	        optimizer.ZeroGrad()
//	        loss.Backward()
//	        optimizer.Step()
//	        g.Release(mark)
//	    }
//	}
//
// # Optimizers
//
// SGD (Stochastic Gradient Descent):
//
//	optimizer := optim.NewSGD(
//	    model.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
//
// Adam (Adaptive Moment Estimation):
//
//	optimizer := optim.NewAdam(
//	    model.Parameters(),
//	    optim.AdamConfig{
//	        LR:    0.001,
//	        Betas: [2]float64{0.9, 0.999},
//	        Eps:   1e-8,
//	    },
//	)
//
// Parameters must be leaves of the graph. Step panics on operation nodes.
package optim
