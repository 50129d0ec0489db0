// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine provides scalar reverse-mode automatic differentiation.
//
// Every scalar lives in a Graph arena and is addressed by a lightweight
// Value handle. Operations on values record the operands and the operator
// kind, and Backward walks the recorded graph in reverse topological order
// accumulating gradients into every reachable node.
//
// Example:
//
//	import "github.com/born-ml/minigrad/engine"
//
//	func main() {
//	    g := engine.NewGraph()
//	    a, b := g.Leaf(-4), g.Leaf(2)
//
//	    c := a.Add(b)
//	    d := a.Mul(b).Add(b.Square())
//	    out := c.Add(d).ReLU()
//
//	    out.Backward()
//	    fmt.Println(a.Grad(), b.Grad())
//	}
//
// Training loops reuse one graph across steps and drop per-step nodes with
// Mark and Release, leaving parameter leaves in place:
//
//	mark := g.Mark()
//	loss := forward(g, params)
//	loss.Backward()
//	update(params)
//	g.Release(mark)
package engine

import "github.com/born-ml/minigrad/internal/engine"

// Graph is an arena of scalar nodes that owns all values created from it.
type Graph = engine.Graph

// Value is a handle to a scalar node in a Graph.
type Value = engine.Value

// Kind identifies the operator that produced a node.
type Kind = engine.Kind

// Mark is a position in a Graph returned by Graph.Mark.
type Mark = engine.Mark

// BackwardOption configures a backward pass.
type BackwardOption = engine.BackwardOption

// Operator kinds.
const (
	OpLeaf = engine.OpLeaf
	OpAdd  = engine.OpAdd
	OpMul  = engine.OpMul
	OpPow  = engine.OpPow
	OpReLU = engine.OpReLU
)

// Errors returned by the dynamic graph operators.
var (
	ErrInvalidOperandType = engine.ErrInvalidOperandType
	ErrDivisionByZero     = engine.ErrDivisionByZero
	ErrInvalidOperand     = engine.ErrInvalidOperand
	ErrForeignValue       = engine.ErrForeignValue
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return engine.NewGraph()
}

// Sum returns the sum of vals. Panics if vals is empty.
func Sum(vals ...Value) Value {
	return engine.Sum(vals...)
}

// WithTrace calls fn for every operation node just before its local
// gradient rule runs.
func WithTrace(fn func(Value)) BackwardOption {
	return engine.WithTrace(fn)
}
