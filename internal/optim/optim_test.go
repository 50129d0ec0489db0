package optim_test

import (
	"testing"

	"github.com/born-ml/minigrad/internal/engine"
	"github.com/born-ml/minigrad/internal/nn"
	"github.com/born-ml/minigrad/internal/optim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	g := engine.NewGraph()
	x := g.Leaf(2)
	optimizer := optim.NewSGD([]engine.Value{x}, optim.SGDConfig{LR: 0.1})

	// d(x^2)/dx = 4 at x = 2
	x.Square().Backward()
	optimizer.Step()

	// Expected: x_new = 2 - 0.1 * 4 = 1.6
	assert.InDelta(t, 1.6, x.Data(), 1e-12)
}

// TestSGD_WithMomentum tests that velocity accumulates across steps.
func TestSGD_WithMomentum(t *testing.T) {
	g := engine.NewGraph()
	x := g.Leaf(1)
	optimizer := optim.NewSGD([]engine.Value{x}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	// Constant gradient of 1 via y = x.
	x.Backward()
	optimizer.Step() // v = 1, x = 0.9
	assert.InDelta(t, 0.9, x.Data(), 1e-12)

	optimizer.ZeroGrad()
	x.Backward()
	optimizer.Step() // v = 1.9, x = 0.71
	assert.InDelta(t, 0.71, x.Data(), 1e-12)

	assert.InDelta(t, 1.9, optimizer.StateDict()["velocity.0"], 1e-12)
}

// TestSGD_Defaults tests default learning rate and LR updates.
func TestSGD_Defaults(t *testing.T) {
	optimizer := optim.NewSGD(nil, optim.SGDConfig{})
	assert.Equal(t, 0.01, optimizer.GetLR())
	assert.Empty(t, optimizer.StateDict())

	optimizer.SetLR(0.5)
	assert.Equal(t, 0.5, optimizer.GetLR())
}

// TestSGD_LoadStateDict tests restoring velocity buffers.
func TestSGD_LoadStateDict(t *testing.T) {
	g := engine.NewGraph()
	x := g.Leaf(0)
	optimizer := optim.NewSGD([]engine.Value{x}, optim.SGDConfig{LR: 1, Momentum: 0.5})
	optimizer.LoadStateDict(map[string]float64{"velocity.0": 2})

	optimizer.Step() // grad 0: v = 1, x = -1
	assert.InDelta(t, -1.0, x.Data(), 1e-12)
}

// TestSGD_RejectsOperationNodes tests that only leaves can be optimized.
func TestSGD_RejectsOperationNodes(t *testing.T) {
	g := engine.NewGraph()
	y := g.Leaf(1).AddConst(1)
	optimizer := optim.NewSGD([]engine.Value{y}, optim.SGDConfig{})

	assert.Panics(t, optimizer.Step)
}

// TestAdam_FirstStep tests that the first Adam step moves by about lr.
func TestAdam_FirstStep(t *testing.T) {
	g := engine.NewGraph()
	x := g.Leaf(1)
	optimizer := optim.NewAdam([]engine.Value{x}, optim.AdamConfig{LR: 0.1})

	x.MulConst(5).Backward()
	optimizer.Step()

	// m_hat = g, v_hat = g^2, so the update is lr * g/|g|.
	assert.InDelta(t, 0.9, x.Data(), 1e-6)
	assert.Equal(t, 0.1, optimizer.GetLR())
}

// TestOptimizers_TrainMLP tests that both optimizers reduce the loss of a
// small regression problem.
func TestOptimizers_TrainMLP(t *testing.T) {
	xs := [][]float64{{2, 3, -1}, {3, -1, 0.5}, {0.5, 1, 1}, {1, 1, -1}}
	ys := []float64{1, -1, -1, 1}

	newOpt := map[string]func([]engine.Value) optim.Optimizer{
		"sgd": func(p []engine.Value) optim.Optimizer {
			return optim.NewSGD(p, optim.SGDConfig{LR: 0.05, Momentum: 0.5})
		},
		"adam": func(p []engine.Value) optim.Optimizer {
			return optim.NewAdam(p, optim.AdamConfig{LR: 0.02})
		},
	}

	for name, mk := range newOpt {
		t.Run(name, func(t *testing.T) {
			g := engine.NewGraph()
			model := nn.NewMLP(g, 3, []int{4, 4, 1}, nn.NewUniform(-1, 1, 1337))
			optimizer := mk(model.Parameters())

			lossAt := func() float64 {
				mark := g.Mark()
				defer g.Release(mark)

				preds := make([]engine.Value, len(xs))
				for i, x := range xs {
					out, err := model.Forward(g.Leaves(x...))
					require.NoError(t, err)
					preds[i] = out[0]
				}
				loss, err := nn.MSELoss(preds, g.Leaves(ys...))
				require.NoError(t, err)

				optimizer.ZeroGrad()
				loss.Backward()
				optimizer.Step()
				return loss.Data()
			}

			first := lossAt()
			last := first
			for i := 0; i < 100; i++ {
				last = lossAt()
			}
			assert.Less(t, last, first)
			assert.Equal(t, 41, g.Len(), "intermediate nodes must be released")
		})
	}
}

// TestAdam_StateDict tests that restored moments continue the same trajectory.
func TestAdam_StateDict(t *testing.T) {
	run := func(x engine.Value, opt *optim.Adam) {
		opt.ZeroGrad()
		x.Square().Backward()
		opt.Step()
	}

	g := engine.NewGraph()
	a := g.Leaf(1)
	optA := optim.NewAdam([]engine.Value{a}, optim.AdamConfig{LR: 0.1})
	run(a, optA)

	b := g.Leaf(a.Data())
	optB := optim.NewAdam([]engine.Value{b}, optim.AdamConfig{LR: 0.1})
	optB.LoadStateDict(optA.StateDict())
	assert.Equal(t, 1.0, optA.StateDict()["step"])

	run(a, optA)
	run(b, optB)
	assert.Equal(t, a.Data(), b.Data())
}
