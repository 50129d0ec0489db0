package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/minigrad/internal/engine"
)

// MLP is a multilayer perceptron: ReLU layers followed by a linear output
// layer.
//
// Example:
//
//	g := engine.NewGraph()
//	model := nn.NewMLP(g, 3, []int{4, 4, 1}, nn.NewUniform(-1, 1, 42))
//	out, err := model.Forward(g.Leaves(2, 3, -1))
type MLP struct {
	layers []*Layer
}

// NewMLP creates layers of sizes nouts on top of nin inputs.
func NewMLP(g *engine.Graph, nin int, nouts []int, init Initializer) *MLP {
	init = defaultInit(init)
	sizes := append([]int{nin}, nouts...)
	layers := make([]*Layer, len(nouts))
	for i := range layers {
		layers[i] = NewLayer(g, sizes[i], sizes[i+1], i != len(nouts)-1, init)
	}
	return &MLP{layers: layers}
}

// Forward feeds x through every layer.
func (m *MLP) Forward(x []engine.Value) ([]engine.Value, error) {
	for i, l := range m.layers {
		var err error
		x, err = l.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("mlp: layer %d: %w", i, err)
		}
	}
	return x, nil
}

// Layers returns the layers of the network.
func (m *MLP) Layers() []*Layer {
	return m.layers
}

// Parameters returns the parameters of every layer, in layer order.
func (m *MLP) Parameters() []engine.Value {
	var params []engine.Value
	for _, l := range m.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// NamedParameters returns "layers.<i>.<name>" for every layer parameter.
func (m *MLP) NamedParameters() []NamedParameter {
	var params []NamedParameter
	for i, l := range m.layers {
		params = append(params, prefixed("layers."+strconv.Itoa(i), l.NamedParameters())...)
	}
	return params
}

// ZeroGrad resets the gradients of all parameters.
func (m *MLP) ZeroGrad() {
	ZeroGrad(m)
}

// String implements fmt.Stringer.
func (m *MLP) String() string {
	parts := make([]string, len(m.layers))
	for i, l := range m.layers {
		parts[i] = l.String()
	}
	return "MLP of [" + strings.Join(parts, ", ") + "]"
}
