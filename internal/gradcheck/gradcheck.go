// Package gradcheck compares gradients computed by the engine against
// central finite differences.
//
// Example:
//
//	res, err := gradcheck.Check(func(g *engine.Graph, x []engine.Value) (engine.Value, error) {
//	    return x[0].Mul(x[1]).Add(x[0].Square()), nil
//	}, []float64{1.5, -2}, gradcheck.Config{})
package gradcheck

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/born-ml/minigrad/internal/engine"
	"github.com/born-ml/minigrad/internal/parallel"
)

// ErrMismatch is returned when an analytic gradient disagrees with its
// numerical estimate.
var ErrMismatch = errors.New("gradient mismatch")

// Func builds a scalar expression of the inputs x on graph g.
type Func func(g *engine.Graph, x []engine.Value) (engine.Value, error)

// Config holds gradient check settings.
type Config struct {
	Step float64 // Finite difference step (default: fd's central default)
	Abs  float64 // Absolute tolerance (default: 1e-5)
	Rel  float64 // Relative tolerance (default: 1e-4)
}

// Result holds the outcome of a gradient check.
type Result struct {
	Value      float64   // f(x)
	Analytic   []float64 // Gradients from Backward
	Numeric    []float64 // Central difference estimates
	MaxAbsDiff float64   // max |Analytic[i] - Numeric[i]|
	Mismatched []int     // Indices outside tolerance
}

// Check evaluates f at x, differentiates it with the engine and with central
// finite differences, and compares the two.
//
// Returns ErrMismatch (wrapped) together with a populated Result when any
// component is outside tolerance, or the error of f itself if it fails.
func Check(f Func, x []float64, cfg Config) (Result, error) {
	if cfg.Abs == 0 {
		cfg.Abs = 1e-5
	}
	if cfg.Rel == 0 {
		cfg.Rel = 1e-4
	}

	value, analytic, err := Analytic(f, x)
	if err != nil {
		return Result{}, err
	}

	var evalErr error
	numeric := fd.Gradient(nil, func(at []float64) float64 {
		v, err := Eval(f, at)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}, x, &fd.Settings{
		Formula: fd.Central,
		Step:    cfg.Step,
	})
	if evalErr != nil {
		return Result{}, fmt.Errorf("gradcheck: numeric: %w", evalErr)
	}

	res := Result{
		Value:      value,
		Analytic:   analytic,
		Numeric:    numeric,
		MaxAbsDiff: floats.Distance(analytic, numeric, math.Inf(1)),
	}
	for i := range analytic {
		if !scalar.EqualWithinAbsOrRel(analytic[i], numeric[i], cfg.Abs, cfg.Rel) {
			res.Mismatched = append(res.Mismatched, i)
		}
	}
	if len(res.Mismatched) > 0 {
		i := res.Mismatched[0]
		return res, fmt.Errorf("gradcheck: input %d: analytic %g, numeric %g: %w",
			i, analytic[i], numeric[i], ErrMismatch)
	}
	return res, nil
}

// Case is a named function and the point to check it at.
type Case struct {
	Name string
	F    Func
	X    []float64
}

// CheckAll runs Check for every case, spreading cases over goroutines
// according to pcfg. results[i] and errs[i] belong to cases[i].
func CheckAll(cases []Case, cfg Config, pcfg parallel.Config) (results []Result, errs []error) {
	results = make([]Result, len(cases))
	errs = make([]error, len(cases))
	parallel.For(len(cases), func(i int) {
		results[i], errs[i] = Check(cases[i].F, cases[i].X, cfg)
	}, pcfg)
	return results, errs
}

// Eval computes f(x) on a fresh graph.
func Eval(f Func, x []float64) (float64, error) {
	g := engine.NewGraph()
	out, err := f(g, g.Leaves(x...))
	if err != nil {
		return math.NaN(), err
	}
	return out.Data(), nil
}

// Analytic computes f(x) and its gradient with respect to x using a single
// backward pass on a fresh graph.
func Analytic(f Func, x []float64) (float64, []float64, error) {
	g := engine.NewGraph()
	in := g.Leaves(x...)
	out, err := f(g, in)
	if err != nil {
		return 0, nil, fmt.Errorf("gradcheck: analytic: %w", err)
	}
	out.Backward()

	grads := make([]float64, len(in))
	for i, v := range in {
		grads[i] = v.Grad()
	}
	return out.Data(), grads, nil
}
