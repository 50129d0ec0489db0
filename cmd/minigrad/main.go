// Package main provides the minigrad CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/born-ml/minigrad/internal/engine"
	"github.com/born-ml/minigrad/internal/gradcheck"
	"github.com/born-ml/minigrad/internal/nn"
	"github.com/born-ml/minigrad/internal/parallel"
	"github.com/born-ml/minigrad/internal/serialization"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("minigrad: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("minigrad %s (checkpoint format v%d)\n", version, serialization.FormatVersion)
	case "inspect":
		err = runInspect(os.Args[2:])
	case "gradcheck":
		err = runGradcheck(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Println("minigrad - scalar autodiff engine")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                 Show version")
	fmt.Println("  inspect [-values] FILE  Print checkpoint header and entries")
	fmt.Println("  gradcheck [-seed N]     Compare engine gradients with finite differences")
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	values := fs.Bool("values", false, "Print every entry value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("inspect: expected exactly one checkpoint path")
	}

	ckpt, err := serialization.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	h := ckpt.Header
	fmt.Printf("format:     v%d (written by %s)\n", h.FormatVersion, h.Version)
	fmt.Printf("model:      %s\n", h.ModelType)
	fmt.Printf("created:    %s\n", h.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("entries:    %d\n", len(ckpt.Entries))
	if m := h.CheckpointMeta; m != nil {
		fmt.Printf("epoch:      %d (step %d)\n", m.Epoch, m.Step)
		fmt.Printf("loss:       %g\n", m.Loss)
		if m.OptimizerType != "" {
			fmt.Printf("optimizer:  %s (lr=%g)\n", m.OptimizerType, m.LR)
		}
	}

	keys := make([]string, 0, len(h.Metadata))
	for k := range h.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("meta:       %s=%s\n", k, h.Metadata[k])
	}

	if *values {
		for _, e := range ckpt.Entries {
			fmt.Printf("  %-32s %g\n", e.Name, e.Value)
		}
	}
	return nil
}

// builtinChecks are the expressions verified by the gradcheck command.
var builtinChecks = []struct {
	name string
	nin  int
	f    gradcheck.Func
}{
	{
		name: "polynomial",
		nin:  2,
		f: func(_ *engine.Graph, x []engine.Value) (engine.Value, error) {
			return x[0].Mul(x[1]).Add(x[0].Square()).Add(x[1].MulConst(3)), nil
		},
	},
	{
		name: "rational",
		nin:  2,
		f: func(_ *engine.Graph, x []engine.Value) (engine.Value, error) {
			den := x[1].Square().AddConst(1)
			return x[0].Div(den)
		},
	},
	{
		name: "cube",
		nin:  1,
		f: func(_ *engine.Graph, x []engine.Value) (engine.Value, error) {
			return x[0].Pow(3)
		},
	},
	{
		name: "mlp",
		nin:  3,
		f: func(g *engine.Graph, x []engine.Value) (engine.Value, error) {
			// Fixed weights so every evaluation sees the same network.
			model := nn.NewMLP(g, 3, []int{4, 1}, nn.NewUniform(-1, 1, 7))
			out, err := model.Forward(x)
			if err != nil {
				return engine.Value{}, err
			}
			return out[0], nil
		},
	},
}

func runGradcheck(args []string) error {
	fs := flag.NewFlagSet("gradcheck", flag.ExitOnError)
	seed := fs.Int64("seed", 1, "Seed for the evaluation points")
	abs := fs.Float64("abs", 1e-5, "Absolute tolerance")
	rel := fs.Float64("rel", 1e-4, "Relative tolerance")
	if err := fs.Parse(args); err != nil {
		return err
	}

	points := nn.NewUniform(-2, 2, *seed)
	cases := make([]gradcheck.Case, len(builtinChecks))
	for i, c := range builtinChecks {
		x := make([]float64, c.nin)
		for j := range x {
			x[j] = points.Sample()
		}
		cases[i] = gradcheck.Case{Name: c.name, F: c.f, X: x}
	}

	cfg := gradcheck.Config{Abs: *abs, Rel: *rel}
	results, errs := gradcheck.CheckAll(cases, cfg, parallel.DefaultConfig())

	failed := 0
	for i, c := range cases {
		res, err := results[i], errs[i]
		switch {
		case errors.Is(err, gradcheck.ErrMismatch):
			failed++
			fmt.Printf("FAIL %-12s max|diff|=%.3g mismatched=%v\n", c.Name, res.MaxAbsDiff, res.Mismatched)
		case err != nil:
			return fmt.Errorf("gradcheck %s: %w", c.Name, err)
		default:
			fmt.Printf("ok   %-12s f=%.6g max|diff|=%.3g\n", c.Name, res.Value, res.MaxAbsDiff)
		}
	}

	x := make([]float64, 3)
	for i := range x {
		x[i] = points.Sample()
	}
	res, err := gradcheck.CheckJacobian(func(g *engine.Graph, x []engine.Value) ([]engine.Value, error) {
		return nn.NewMLP(g, 3, []int{4, 2}, nn.NewUniform(-1, 1, 7)).Forward(x)
	}, x, cfg)
	switch {
	case errors.Is(err, gradcheck.ErrMismatch):
		failed++
		fmt.Printf("FAIL %-12s max|diff|=%.3g\n", "mlp-jacobian", res.MaxAbsDiff)
	case err != nil:
		return fmt.Errorf("gradcheck mlp-jacobian: %w", err)
	default:
		fmt.Printf("ok   %-12s max|diff|=%.3g\n", "mlp-jacobian", res.MaxAbsDiff)
	}

	if total := len(builtinChecks) + 1; failed > 0 {
		return fmt.Errorf("gradcheck: %d of %d checks failed", failed, total)
	}
	return nil
}
