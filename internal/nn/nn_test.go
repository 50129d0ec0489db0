package nn_test

import (
	"testing"

	"github.com/born-ml/minigrad/internal/engine"
	"github.com/born-ml/minigrad/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNeuron_Forward tests the weighted sum, bias and activation.
func TestNeuron_Forward(t *testing.T) {
	g := engine.NewGraph()
	n := nn.NewNeuron(g, 2, true, nn.Constant(0.5))
	n.Bias().SetData(1)

	out, err := n.Forward(g.Leaves(2, 4))
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Data()) // 1 + 0.5*2 + 0.5*4

	out.Backward()
	assert.Equal(t, 2.0, n.Weights()[0].Grad())
	assert.Equal(t, 4.0, n.Weights()[1].Grad())
	assert.Equal(t, 1.0, n.Bias().Grad())
}

// TestNeuron_ReLUCutoff tests that a negative pre-activation blocks gradients.
func TestNeuron_ReLUCutoff(t *testing.T) {
	g := engine.NewGraph()
	n := nn.NewNeuron(g, 1, true, nn.Constant(-1))

	out, err := n.Forward(g.Leaves(3))
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.Data())

	out.Backward()
	assert.Equal(t, 0.0, n.Weights()[0].Grad())
	assert.Equal(t, 0.0, n.Bias().Grad())
}

// TestNeuron_InputSize tests input length validation.
func TestNeuron_InputSize(t *testing.T) {
	g := engine.NewGraph()
	n := nn.NewNeuron(g, 3, false, nil)

	_, err := n.Forward(g.Leaves(1, 2))
	assert.ErrorIs(t, err, nn.ErrInputSize)
}

// TestMLP_Parameters tests parameter count and stable order.
func TestMLP_Parameters(t *testing.T) {
	g := engine.NewGraph()
	model := nn.NewMLP(g, 3, []int{4, 4, 1}, nn.NewUniform(-1, 1, 42))

	params := model.Parameters()
	// (3+1)*4 + (4+1)*4 + (4+1)*1
	assert.Len(t, params, 41)
	assert.Equal(t, params, model.Parameters())
	for _, p := range params {
		assert.True(t, p.IsLeaf())
	}

	named := model.NamedParameters()
	require.Len(t, named, len(params))
	for i := range named {
		assert.Equal(t, params[i], named[i].Value)
	}
	assert.Equal(t, "layers.0.neurons.0.w.0", named[0].Name)
	assert.Equal(t, "layers.0.neurons.0.b", named[3].Name)
	assert.Equal(t, "layers.2.neurons.0.b", named[len(named)-1].Name)
}

// TestMLP_String tests the topology description.
func TestMLP_String(t *testing.T) {
	g := engine.NewGraph()
	model := nn.NewMLP(g, 2, []int{2, 1}, nn.Constant(0))

	assert.Equal(t,
		"MLP of [Layer of [ReLU Neuron (2), ReLU Neuron (2)], Layer of [Linear Neuron (2)]]",
		model.String())
}

// TestMLP_ForwardBackward tests that gradients reach every layer.
func TestMLP_ForwardBackward(t *testing.T) {
	g := engine.NewGraph()
	model := nn.NewMLP(g, 2, []int{3, 1}, nn.Constant(0.5))

	out, err := model.Forward(g.Leaves(1, 2))
	require.NoError(t, err)
	require.Len(t, out, 1)
	// hidden: 0.5*1 + 0.5*2 = 1.5 each; output: 3 * 0.5 * 1.5
	assert.InDelta(t, 2.25, out[0].Data(), 1e-12)

	out[0].Backward()
	first := model.Layers()[0].Neurons()[0]
	assert.InDelta(t, 0.5, first.Weights()[0].Grad(), 1e-12)
	assert.InDelta(t, 1.0, first.Weights()[1].Grad(), 1e-12)
	last := model.Layers()[1].Neurons()[0]
	assert.InDelta(t, 1.5, last.Weights()[2].Grad(), 1e-12)

	model.ZeroGrad()
	for _, p := range model.Parameters() {
		assert.Equal(t, 0.0, p.Grad())
	}
}

// TestMLP_InputSize tests that the error names the failing layer.
func TestMLP_InputSize(t *testing.T) {
	g := engine.NewGraph()
	model := nn.NewMLP(g, 2, []int{2, 1}, nil)

	_, err := model.Forward(g.Leaves(1))
	assert.ErrorIs(t, err, nn.ErrInputSize)
	assert.Contains(t, err.Error(), "layer 0")
}

// TestStateDict_RoundTrip tests exporting and importing parameter values.
func TestStateDict_RoundTrip(t *testing.T) {
	g := engine.NewGraph()
	src := nn.NewMLP(g, 2, []int{2, 1}, nn.NewUniform(-1, 1, 1))
	dst := nn.NewMLP(g, 2, []int{2, 1}, nn.Constant(0))

	state := nn.StateDict(src)
	require.NoError(t, nn.LoadStateDict(dst, state))

	for i, p := range dst.Parameters() {
		assert.Equal(t, src.Parameters()[i].Data(), p.Data())
	}

	delete(state, "layers.1.neurons.0.b")
	assert.ErrorIs(t, nn.LoadStateDict(dst, state), nn.ErrMissingParameter)
}

// TestMSELoss tests the mean squared error and its gradient.
func TestMSELoss(t *testing.T) {
	g := engine.NewGraph()
	pred := g.Leaves(1, 3)
	target := g.Leaves(0, 1)

	loss, err := nn.MSELoss(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, loss.Data(), 1e-12) // (1 + 4) / 2

	loss.Backward()
	assert.InDelta(t, 1.0, pred[0].Grad(), 1e-12) // 2*1/2
	assert.InDelta(t, 2.0, pred[1].Grad(), 1e-12) // 2*2/2
	assert.InDelta(t, -2.0, target[1].Grad(), 1e-12)

	_, err = nn.MSELoss(pred, target[:1])
	assert.ErrorIs(t, err, nn.ErrInputSize)
}

// TestHingeLoss tests the max-margin loss.
func TestHingeLoss(t *testing.T) {
	g := engine.NewGraph()
	scores := g.Leaves(2, 0.5, -0.5)

	loss, err := nn.HingeLoss(scores, []float64{1, 1, 1})
	require.NoError(t, err)
	// relu(1-2)=0, relu(0.5)=0.5, relu(1.5)=1.5
	assert.InDelta(t, 2.0/3.0, loss.Data(), 1e-12)

	loss.Backward()
	assert.Equal(t, 0.0, scores[0].Grad())
	assert.InDelta(t, -1.0/3.0, scores[1].Grad(), 1e-12)

	_, err = nn.HingeLoss(nil, nil)
	assert.ErrorIs(t, err, nn.ErrInputSize)
}

// TestUniform_Sample tests range and seeding.
func TestUniform_Sample(t *testing.T) {
	a := nn.NewUniform(-0.5, 0.5, 3)
	b := nn.NewUniform(-0.5, 0.5, 3)

	for i := 0; i < 100; i++ {
		x := a.Sample()
		assert.GreaterOrEqual(t, x, -0.5)
		assert.Less(t, x, 0.5)
		assert.Equal(t, x, b.Sample())
	}

	x := nn.Xavier(2, 2, 1)
	assert.InDelta(t, 1.224744871, x.High, 1e-9)
	assert.Equal(t, -x.High, x.Low)
}
