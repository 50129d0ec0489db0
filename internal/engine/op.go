package engine

import (
	"fmt"
	"math"
)

// Kind identifies the operation that produced a node.
//
// Backward rules per kind (out is the node, a and b its operands):
//   - OpLeaf: none
//   - OpAdd:  a.grad += out.grad, b.grad += out.grad
//   - OpMul:  a.grad += b.value * out.grad, b.grad += a.value * out.grad
//   - OpPow:  a.grad += p * a.value^(p-1) * out.grad, nothing when p == 0
//   - OpReLU: a.grad += out.grad if out.value > 0
//
// Negation, subtraction and division are compositions of these and have no
// kind of their own.
type Kind uint8

// Operation kinds.
const (
	OpLeaf Kind = iota
	OpAdd
	OpMul
	OpPow
	OpReLU
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case OpLeaf:
		return "leaf"
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpPow:
		return "pow"
	case OpReLU:
		return "relu"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// propagate adds node id's share of its gradient into its predecessors.
//
// It reads grads and values at call time, so the scheduler must call it only
// once every consumer of id has already propagated.
func (g *Graph) propagate(id int32) {
	out := &g.nodes[id]
	switch out.op {
	case OpLeaf:
	case OpAdd:
		a, b := &g.nodes[out.prev[0]], &g.nodes[out.prev[1]]
		a.grad += out.grad
		b.grad += out.grad
	case OpMul:
		a, b := &g.nodes[out.prev[0]], &g.nodes[out.prev[1]]
		av, bv := a.value, b.value
		a.grad += bv * out.grad
		b.grad += av * out.grad
	case OpPow:
		// x**0 is constant; skip it so 0**-1 never enters the product.
		if out.exponent == 0 {
			return
		}
		a := &g.nodes[out.prev[0]]
		a.grad += out.exponent * math.Pow(a.value, out.exponent-1) * out.grad
	case OpReLU:
		if out.value > 0 {
			g.nodes[out.prev[0]].grad += out.grad
		}
	default:
		panic(fmt.Sprintf("engine: propagate: unknown op %s", out.op))
	}
}
