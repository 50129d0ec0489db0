package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/minigrad/internal/engine"
)

// Neuron computes act(sum(w_i * x_i) + b), where act is ReLU for
// non-linear neurons and the identity otherwise.
type Neuron struct {
	w      []engine.Value
	b      engine.Value
	nonlin bool
}

// NewNeuron creates a neuron with nin weights drawn from init and a zero
// bias, all as leaves of g. A nil init samples U(-1, 1).
func NewNeuron(g *engine.Graph, nin int, nonlin bool, init Initializer) *Neuron {
	init = defaultInit(init)
	w := make([]engine.Value, nin)
	for i := range w {
		w[i] = g.Leaf(init.Sample())
	}
	return &Neuron{
		w:      w,
		b:      g.Leaf(0),
		nonlin: nonlin,
	}
}

// Forward computes the neuron's output for input x.
func (n *Neuron) Forward(x []engine.Value) (engine.Value, error) {
	if len(x) != len(n.w) {
		return engine.Value{}, fmt.Errorf("neuron: got %d inputs, want %d: %w", len(x), len(n.w), ErrInputSize)
	}

	act := n.b
	for i, wi := range n.w {
		act = act.Add(wi.Mul(x[i]))
	}

	if n.nonlin {
		return act.ReLU(), nil
	}
	return act, nil
}

// Weights returns the weight leaves.
func (n *Neuron) Weights() []engine.Value {
	return n.w
}

// Bias returns the bias leaf.
func (n *Neuron) Bias() engine.Value {
	return n.b
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []engine.Value {
	params := make([]engine.Value, 0, len(n.w)+1)
	params = append(params, n.w...)
	return append(params, n.b)
}

// NamedParameters returns "w.<i>" for each weight and "b" for the bias.
func (n *Neuron) NamedParameters() []NamedParameter {
	params := make([]NamedParameter, 0, len(n.w)+1)
	for i, w := range n.w {
		params = append(params, NamedParameter{Name: "w." + strconv.Itoa(i), Value: w})
	}
	return append(params, NamedParameter{Name: "b", Value: n.b})
}

// ZeroGrad resets the gradients of all parameters.
func (n *Neuron) ZeroGrad() {
	ZeroGrad(n)
}

// String implements fmt.Stringer.
func (n *Neuron) String() string {
	kind := "Linear"
	if n.nonlin {
		kind = "ReLU"
	}
	return fmt.Sprintf("%s Neuron (%d)", kind, len(n.w))
}
