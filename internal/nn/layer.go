package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/minigrad/internal/engine"
)

// Layer is a set of neurons sharing the same input.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates nout neurons with nin inputs each.
func NewLayer(g *engine.Graph, nin, nout int, nonlin bool, init Initializer) *Layer {
	init = defaultInit(init)
	neurons := make([]*Neuron, nout)
	for i := range neurons {
		neurons[i] = NewNeuron(g, nin, nonlin, init)
	}
	return &Layer{neurons: neurons}
}

// Forward returns one output per neuron.
func (l *Layer) Forward(x []engine.Value) ([]engine.Value, error) {
	out := make([]engine.Value, len(l.neurons))
	for i, n := range l.neurons {
		v, err := n.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer: neuron %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Neurons returns the neurons of the layer.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// Parameters returns the parameters of every neuron, in neuron order.
func (l *Layer) Parameters() []engine.Value {
	var params []engine.Value
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

// NamedParameters returns "neurons.<i>.<name>" for every neuron parameter.
func (l *Layer) NamedParameters() []NamedParameter {
	var params []NamedParameter
	for i, n := range l.neurons {
		params = append(params, prefixed("neurons."+strconv.Itoa(i), n.NamedParameters())...)
	}
	return params
}

// ZeroGrad resets the gradients of all parameters.
func (l *Layer) ZeroGrad() {
	ZeroGrad(l)
}

// String implements fmt.Stringer.
func (l *Layer) String() string {
	parts := make([]string, len(l.neurons))
	for i, n := range l.neurons {
		parts[i] = n.String()
	}
	return "Layer of [" + strings.Join(parts, ", ") + "]"
}
