package engine

import "fmt"

// Value is a handle to a node of a Graph.
//
// Values are small and meant to be passed by value. The zero Value is not
// usable.
type Value struct {
	g     *Graph
	id    int32
	epoch uint32
}

// node returns the arena slot behind v.
// The pointer is only valid until the next node is appended.
func (v Value) node() *node {
	if v.g == nil {
		panic("engine: use of zero Value")
	}
	if !v.Valid() {
		panic(fmt.Sprintf("engine: use of released Value #%d", v.id))
	}
	return &v.g.nodes[v.id]
}

// Valid reports whether v still refers to a live node.
func (v Value) Valid() bool {
	if v.g == nil || v.id < 0 || int(v.id) >= len(v.g.nodes) {
		return false
	}
	return v.g.nodes[v.id].epoch == v.epoch
}

// Graph returns the graph v belongs to.
func (v Value) Graph() *Graph {
	v.node()
	return v.g
}

// ID returns the arena index of v.
func (v Value) ID() int {
	return int(v.id)
}

// Data returns the forward value.
func (v Value) Data() float64 {
	return v.node().value
}

// Grad returns the accumulated gradient.
func (v Value) Grad() float64 {
	return v.node().grad
}

// ZeroGrad resets the accumulated gradient to 0.
func (v Value) ZeroGrad() {
	v.node().grad = 0
}

// SetData overwrites the value of a leaf. Optimizers use it to update
// parameters between steps.
//
// Panics if v was produced by an operation: operation results are immutable.
func (v Value) SetData(x float64) {
	n := v.node()
	if n.op != OpLeaf {
		panic(fmt.Sprintf("engine: SetData on %s node #%d", n.op, v.id))
	}
	n.value = x
}

// Op returns the kind of operation that produced v.
func (v Value) Op() Kind {
	return v.node().op
}

// IsLeaf reports whether v has no predecessors.
func (v Value) IsLeaf() bool {
	return v.node().op == OpLeaf
}

// Prev returns the operands v was computed from, in operand order.
// The same Value appears twice for self-operations such as x + x.
func (v Value) Prev() []Value {
	n := v.node()
	out := make([]Value, n.nprev)
	for i := range out {
		out[i] = v.g.handle(n.prev[i])
	}
	return out
}

// Exponent returns the exponent of a power node and 0 for any other kind.
func (v Value) Exponent() float64 {
	return v.node().exponent
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.Valid() {
		return "Value(<invalid>)"
	}
	n := v.node()
	return fmt.Sprintf("Value(data=%g, grad=%g)", n.value, n.grad)
}
