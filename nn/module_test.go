// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/born-ml/minigrad/engine"
	"github.com/born-ml/minigrad/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	g := engine.NewGraph()

	tests := []struct {
		name    string
		module  nn.Module
		nparams int
	}{
		{name: "Neuron", module: nn.NewNeuron(g, 3, true, nil), nparams: 4},
		{name: "Layer", module: nn.NewLayer(g, 3, 2, false, nil), nparams: 8},
		{name: "MLP", module: nn.NewMLP(g, 3, []int{4, 4, 1}, nil), nparams: 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.module.Parameters()
			assert.Len(t, params, tt.nparams)
			assert.Len(t, tt.module.NamedParameters(), tt.nparams)
			for _, p := range params {
				assert.True(t, p.IsLeaf())
			}

			state := nn.StateDict(tt.module)
			assert.Len(t, state, tt.nparams)
			require.NoError(t, nn.LoadStateDict(tt.module, state))
		})
	}
}

// TestMLP_Regression tests a full forward/backward pass through the facade.
func TestMLP_Regression(t *testing.T) {
	g := engine.NewGraph()
	model := nn.NewMLP(g, 2, []int{3, 1}, nn.Xavier(2, 3, 7))

	mark := g.Mark()
	out, err := model.Forward(g.Leaves(0.5, -0.5))
	require.NoError(t, err)
	loss, err := nn.MSELoss(out, g.Leaves(1))
	require.NoError(t, err)

	nn.ZeroGrad(model)
	loss.Backward()
	g.Release(mark)

	assert.Equal(t, len(model.Parameters()), g.Len())

	_, err = model.Forward(g.Leaves(1))
	assert.ErrorIs(t, err, nn.ErrInputSize)
}
