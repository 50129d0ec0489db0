package gradcheck

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/minigrad/internal/engine"
)

// VecFunc builds a vector of scalar expressions of the inputs x on graph g.
type VecFunc func(g *engine.Graph, x []engine.Value) ([]engine.Value, error)

// JacobianResult holds the outcome of a Jacobian check.
type JacobianResult struct {
	Analytic   *mat.Dense // d out_i / d x_j from one backward pass per output
	Numeric    *mat.Dense // Central difference estimates
	MaxAbsDiff float64
}

// CheckJacobian compares the engine Jacobian of f at x with central finite
// differences. The Jacobian has one row per output of f.
func CheckJacobian(f VecFunc, x []float64, cfg Config) (JacobianResult, error) {
	if cfg.Abs == 0 {
		cfg.Abs = 1e-5
	}
	if cfg.Rel == 0 {
		cfg.Rel = 1e-4
	}

	analytic, err := AnalyticJacobian(f, x)
	if err != nil {
		return JacobianResult{}, err
	}
	nout, _ := analytic.Dims()

	var evalErr error
	numeric := mat.NewDense(nout, len(x), nil)
	fd.Jacobian(numeric, func(y, at []float64) {
		g := engine.NewGraph()
		out, err := f(g, g.Leaves(at...))
		if err == nil && len(out) != len(y) {
			err = fmt.Errorf("%d outputs, want %d", len(out), len(y))
		}
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			for i := range y {
				y[i] = math.NaN()
			}
			return
		}
		for i, v := range out {
			y[i] = v.Data()
		}
	}, x, &fd.JacobianSettings{
		Formula: fd.Central,
		Step:    cfg.Step,
	})
	if evalErr != nil {
		return JacobianResult{}, fmt.Errorf("gradcheck: numeric: %w", evalErr)
	}

	var diff mat.Dense
	diff.Sub(analytic, numeric)
	diff.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, &diff)
	res := JacobianResult{
		Analytic:   analytic,
		Numeric:    numeric,
		MaxAbsDiff: mat.Max(&diff),
	}

	for i := range nout {
		for j := range x {
			a, n := analytic.At(i, j), numeric.At(i, j)
			if !scalar.EqualWithinAbsOrRel(a, n, cfg.Abs, cfg.Rel) {
				return res, fmt.Errorf("gradcheck: output %d input %d: analytic %g, numeric %g: %w",
					i, j, a, n, ErrMismatch)
			}
		}
	}
	return res, nil
}

// AnalyticJacobian computes the Jacobian of f at x with one backward pass
// per output, zeroing gradients in between.
func AnalyticJacobian(f VecFunc, x []float64) (*mat.Dense, error) {
	g := engine.NewGraph()
	in := g.Leaves(x...)
	out, err := f(g, in)
	if err != nil {
		return nil, fmt.Errorf("gradcheck: analytic: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gradcheck: analytic: no outputs")
	}

	jac := mat.NewDense(len(out), len(in), nil)
	for i, o := range out {
		g.ZeroGrad()
		o.Backward()
		for j, v := range in {
			jac.Set(i, j, v.Grad())
		}
	}
	return jac, nil
}
