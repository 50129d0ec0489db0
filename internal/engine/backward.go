package engine

import "fmt"

// BackwardOption configures a backward pass.
type BackwardOption func(*backwardConfig)

type backwardConfig struct {
	trace func(Value)
}

// WithTrace calls fn with every operation node right before its backward
// rule runs. Leaves are not reported.
func WithTrace(fn func(Value)) BackwardOption {
	return func(c *backwardConfig) {
		c.trace = fn
	}
}

// Topo returns every node reachable from root in dependency order: each
// node appears after all of its predecessors, and exactly once.
func (g *Graph) Topo(root Value) []Value {
	id := g.root(root, "topo")
	order := g.topo(id)
	out := make([]Value, len(order))
	for i, n := range order {
		out[i] = g.handle(n)
	}
	return out
}

// Backward computes d(root)/d(node) for every node reachable from root and
// adds it into each node's gradient.
//
// Algorithm:
//  1. Order the reachable nodes depth-first so predecessors come first
//  2. Seed root's gradient with 1
//  3. Replay the order in reverse, running each node's backward rule
//
// Gradients are accumulated, never reset: call ZeroGrad on the parameters
// between independent passes.
func (g *Graph) Backward(root Value, opts ...BackwardOption) {
	var cfg backwardConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	id := g.root(root, "backward")
	order := g.topo(id)

	g.nodes[id].grad = 1.0
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if g.nodes[n].op == OpLeaf {
			continue
		}
		if cfg.trace != nil {
			cfg.trace(g.handle(n))
		}
		g.propagate(n)
	}
}

// Backward runs Graph.Backward from v.
func (v Value) Backward(opts ...BackwardOption) {
	v.graph().Backward(v, opts...)
}

// root validates a scheduler entry point.
func (g *Graph) root(v Value, op string) int32 {
	if !g.owns(v) {
		panic(fmt.Sprintf("engine: %s: %v", op, ErrForeignValue))
	}
	return v.id
}

// topo returns the post-order of the nodes reachable from root.
//
// The walk uses an explicit stack so deep chains cannot overflow the
// goroutine stack. Predecessors always have smaller indices, so the
// visited-set only needs to cover [0, root].
func (g *Graph) topo(root int32) []int32 {
	type frame struct {
		id   int32
		next uint8
	}

	visited := make([]bool, root+1)
	order := make([]int32, 0, root+1)
	stack := []frame{{id: root}}
	visited[root] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := &g.nodes[top.id]
		if top.next < n.nprev {
			p := n.prev[top.next]
			top.next++
			if !visited[p] {
				visited[p] = true
				stack = append(stack, frame{id: p})
			}
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}

	return order
}
