// Package engine implements reverse-mode automatic differentiation over
// scalar values.
//
// A Graph is an arena of nodes addressed by index. Every operator appends a
// new node whose predecessors are the operands, so a node's predecessors
// always live at smaller indices than the node itself. A Value is a cheap
// handle into the arena.
//
// Example:
//
//	g := engine.NewGraph()
//	a := g.Leaf(3)
//	b := g.Leaf(4)
//	z := a.Mul(b).Add(a)
//	z.Backward()
//	fmt.Println(a.Grad(), b.Grad()) // 5 3
package engine

import (
	"fmt"
	"math"
)

// Graph owns every node created through it.
//
// A Graph is not safe for concurrent use.
type Graph struct {
	nodes []node
	epoch uint32 // bumped on every Release that drops nodes
}

// node is one arena slot.
type node struct {
	value    float64
	grad     float64
	exponent float64 // OpPow only
	prev     [2]int32
	nprev    uint8
	op       Kind
	epoch    uint32
}

// Mark records the arena size at a point in time. See Graph.Release.
type Mark struct {
	n int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make([]node, 0, 64), // Pre-allocate for common case
	}
}

// Len returns the number of live nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Leaf wraps a plain number as a node with no predecessors.
func (g *Graph) Leaf(x float64) Value {
	return g.push(node{value: x, op: OpLeaf})
}

// Leaves wraps every number in xs as a leaf, preserving order.
func (g *Graph) Leaves(xs ...float64) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = g.Leaf(x)
	}
	return out
}

// Lift coerces x into a node of this graph.
//
// Accepted operands are a Value created by this graph and any Go integer or
// floating-point type. Numbers become fresh leaves. Any other type fails
// with ErrInvalidOperandType; a Value from another graph (or a released
// one) fails with ErrForeignValue.
func (g *Graph) Lift(x any) (Value, error) {
	if v, ok := x.(Value); ok {
		if !g.owns(v) {
			return Value{}, fmt.Errorf("lift: %w", ErrForeignValue)
		}
		return v, nil
	}
	f, err := number(x)
	if err != nil {
		return Value{}, fmt.Errorf("lift: %w", err)
	}
	return g.Leaf(f), nil
}

// ZeroGrad resets the gradient of every node in the graph.
func (g *Graph) ZeroGrad() {
	for i := range g.nodes {
		g.nodes[i].grad = 0
	}
}

// Mark returns the current arena position.
//
// Nodes created after the mark can later be dropped with Release, which is
// how a training loop discards one step's intermediate nodes while keeping
// its parameters:
//
//	m := g.Mark()
//	loss := model.Forward(...)
//	loss.Backward()
//	opt.Step()
//	g.Release(m)
func (g *Graph) Mark() Mark {
	return Mark{n: len(g.nodes)}
}

// Release drops every node created after m. Handles to dropped nodes become
// invalid: Valid reports false for them and any other use panics.
func (g *Graph) Release(m Mark) {
	if m.n < 0 || m.n >= len(g.nodes) {
		return
	}
	g.nodes = g.nodes[:m.n]
	g.epoch++
}

// push appends n and returns its handle.
func (g *Graph) push(n node) Value {
	if len(g.nodes) >= math.MaxInt32 {
		panic("engine: graph is full")
	}
	n.epoch = g.epoch
	g.nodes = append(g.nodes, n)
	return Value{g: g, id: int32(len(g.nodes) - 1), epoch: g.epoch}
}

// handle builds the handle of a live node.
func (g *Graph) handle(id int32) Value {
	return Value{g: g, id: id, epoch: g.nodes[id].epoch}
}

// owns reports whether v is a live node of g.
func (g *Graph) owns(v Value) bool {
	return v.g == g && v.Valid()
}

// number converts a Go numeric value to float64.
func number(x any) (float64, error) {
	switch n := x.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%T: %w", x, ErrInvalidOperandType)
	}
}
