package engine

import (
	"fmt"
	"math"
)

// graph returns the graph of a live v, panicking otherwise.
func (v Value) graph() *Graph {
	v.node()
	return v.g
}

// with checks that other lives in the same graph as v.
func (v Value) with(other Value, op string) *Graph {
	g := v.graph()
	other.node()
	if other.g != g {
		panic(fmt.Sprintf("engine: %s: operands belong to different graphs", op))
	}
	return g
}

func (g *Graph) binary(op Kind, a, b Value, value float64) Value {
	return g.push(node{
		value: value,
		op:    op,
		prev:  [2]int32{a.id, b.id},
		nprev: 2,
	})
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	g := v.with(other, "add")
	return g.binary(OpAdd, v, other, v.Data()+other.Data())
}

// Mul returns v * other.
func (v Value) Mul(other Value) Value {
	g := v.with(other, "mul")
	return g.binary(OpMul, v, other, v.Data()*other.Data())
}

// Neg returns -v, computed as v * -1.
func (v Value) Neg() Value {
	return v.MulConst(-1)
}

// Sub returns v - other, computed as v + (-other).
func (v Value) Sub(other Value) Value {
	v.with(other, "sub")
	return v.Add(other.Neg())
}

// AddConst returns v + c with c wrapped as a leaf.
func (v Value) AddConst(c float64) Value {
	return v.Add(v.graph().Leaf(c))
}

// MulConst returns v * c with c wrapped as a leaf.
func (v Value) MulConst(c float64) Value {
	return v.Mul(v.graph().Leaf(c))
}

// SubConst returns v - c.
func (v Value) SubConst(c float64) Value {
	return v.Sub(v.graph().Leaf(c))
}

// RSub returns c - v, computed as c + (-v).
func (v Value) RSub(c float64) Value {
	return v.graph().Leaf(c).Add(v.Neg())
}

// Pow returns v ** p for a constant exponent p.
//
// Exponents that make the function non-smooth at v are rejected with
// ErrInvalidOperand: a non-positive base with a non-integer exponent, a
// zero base with a negative exponent, and a NaN or infinite exponent.
func (v Value) Pow(p float64) (Value, error) {
	g := v.graph()
	x := v.Data()
	if err := checkPow(x, p); err != nil {
		return Value{}, err
	}
	return g.push(node{
		value:    math.Pow(x, p),
		op:       OpPow,
		exponent: p,
		prev:     [2]int32{v.id},
		nprev:    1,
	}), nil
}

// Square returns v ** 2.
func (v Value) Square() Value {
	out, err := v.Pow(2)
	if err != nil {
		// Integer exponents are valid for every base.
		panic(err)
	}
	return out
}

// Div returns v / other, computed as v * other**-1.
//
// Fails with ErrDivisionByZero when other is exactly zero; no node is
// created in that case.
func (v Value) Div(other Value) (Value, error) {
	v.with(other, "div")
	if other.Data() == 0 {
		return Value{}, fmt.Errorf("div: %g / 0: %w", v.Data(), ErrDivisionByZero)
	}
	inv, err := other.Pow(-1)
	if err != nil {
		return Value{}, fmt.Errorf("div: %w", err)
	}
	return v.Mul(inv), nil
}

// DivConst returns v / c.
func (v Value) DivConst(c float64) (Value, error) {
	if c == 0 {
		return Value{}, fmt.Errorf("div: %g / 0: %w", v.Data(), ErrDivisionByZero)
	}
	return v.Div(v.graph().Leaf(c))
}

// RDiv returns c / v, computed as c * v**-1.
func (v Value) RDiv(c float64) (Value, error) {
	g := v.graph()
	if v.Data() == 0 {
		return Value{}, fmt.Errorf("div: %g / 0: %w", c, ErrDivisionByZero)
	}
	inv, err := v.Pow(-1)
	if err != nil {
		return Value{}, fmt.Errorf("div: %w", err)
	}
	return g.Leaf(c).Mul(inv), nil
}

// ReLU returns max(0, v).
func (v Value) ReLU() Value {
	g := v.graph()
	x := v.Data()
	out := 0.0
	if x > 0 {
		out = x
	}
	return g.push(node{
		value: out,
		op:    OpReLU,
		prev:  [2]int32{v.id},
		nprev: 1,
	})
}

// Sum returns vals[0] + vals[1] + ... as a left fold of Add.
//
// Panics if vals is empty or the values belong to different graphs.
func Sum(vals ...Value) Value {
	if len(vals) == 0 {
		panic("engine: sum of no values")
	}
	out := vals[0]
	for _, v := range vals[1:] {
		out = out.Add(v)
	}
	return out
}

// checkPow applies the domain policy for x ** p.
func checkPow(x, p float64) error {
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return fmt.Errorf("pow: non-finite exponent %g: %w", p, ErrInvalidOperand)
	case x <= 0 && p != math.Trunc(p):
		return fmt.Errorf("pow: non-positive base %g to non-integer power %g: %w", x, p, ErrInvalidOperand)
	case x == 0 && p < 0:
		return fmt.Errorf("pow: zero base to negative power %g: %w", p, ErrInvalidOperand)
	}
	return nil
}

// Add returns x + y. Each operand may be a Value of g or a plain number.
func (g *Graph) Add(x, y any) (Value, error) {
	a, b, err := g.liftPair(x, y)
	if err != nil {
		return Value{}, fmt.Errorf("add: %w", err)
	}
	return a.Add(b), nil
}

// Mul returns x * y. Each operand may be a Value of g or a plain number.
func (g *Graph) Mul(x, y any) (Value, error) {
	a, b, err := g.liftPair(x, y)
	if err != nil {
		return Value{}, fmt.Errorf("mul: %w", err)
	}
	return a.Mul(b), nil
}

// Sub returns x - y. Each operand may be a Value of g or a plain number.
func (g *Graph) Sub(x, y any) (Value, error) {
	a, b, err := g.liftPair(x, y)
	if err != nil {
		return Value{}, fmt.Errorf("sub: %w", err)
	}
	return a.Sub(b), nil
}

// Div returns x / y. Each operand may be a Value of g or a plain number.
// Operands are validated before any leaf is created.
func (g *Graph) Div(x, y any) (Value, error) {
	if err := g.check(x); err != nil {
		return Value{}, fmt.Errorf("div: %w", err)
	}
	d, err := g.peek(y)
	if err != nil {
		return Value{}, fmt.Errorf("div: %w", err)
	}
	if d == 0 {
		return Value{}, fmt.Errorf("div: divisor is 0: %w", ErrDivisionByZero)
	}
	a, b, err := g.liftPair(x, y)
	if err != nil {
		return Value{}, fmt.Errorf("div: %w", err)
	}
	return a.Div(b)
}

// Pow returns base ** exponent.
//
// The exponent must be a plain number: differentiating through a
// graph-valued exponent needs a log term this engine does not provide, so a
// Value exponent fails with ErrInvalidOperand.
func (g *Graph) Pow(base, exponent any) (Value, error) {
	if _, ok := exponent.(Value); ok {
		return Value{}, fmt.Errorf("pow: graph-valued exponent: %w", ErrInvalidOperand)
	}
	p, err := number(exponent)
	if err != nil {
		return Value{}, fmt.Errorf("pow: exponent: %w", err)
	}
	x, err := g.peek(base)
	if err != nil {
		return Value{}, fmt.Errorf("pow: base: %w", err)
	}
	if err := checkPow(x, p); err != nil {
		return Value{}, err
	}
	a, err := g.Lift(base)
	if err != nil {
		return Value{}, fmt.Errorf("pow: %w", err)
	}
	return a.Pow(p)
}

// ReLU returns max(0, x). The operand may be a Value of g or a plain number.
func (g *Graph) ReLU(x any) (Value, error) {
	a, err := g.Lift(x)
	if err != nil {
		return Value{}, fmt.Errorf("relu: %w", err)
	}
	return a.ReLU(), nil
}

// liftPair lifts both operands, creating no node unless both are valid.
func (g *Graph) liftPair(x, y any) (Value, Value, error) {
	if err := g.check(x); err != nil {
		return Value{}, Value{}, err
	}
	if err := g.check(y); err != nil {
		return Value{}, Value{}, err
	}
	a, err := g.Lift(x)
	if err != nil {
		return Value{}, Value{}, err
	}
	b, err := g.Lift(y)
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// check validates an operand without creating a node.
func (g *Graph) check(x any) error {
	_, err := g.peek(x)
	return err
}

// peek returns the numeric value an operand would have once lifted.
func (g *Graph) peek(x any) (float64, error) {
	if v, ok := x.(Value); ok {
		if !g.owns(v) {
			return 0, ErrForeignValue
		}
		return v.Data(), nil
	}
	return number(x)
}
