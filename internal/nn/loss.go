package nn

import (
	"fmt"

	"github.com/born-ml/minigrad/internal/engine"
)

// MSELoss computes mean((pred_i - target_i)^2).
func MSELoss(pred, target []engine.Value) (engine.Value, error) {
	if len(pred) == 0 || len(pred) != len(target) {
		return engine.Value{}, fmt.Errorf("mse: %d predictions, %d targets: %w", len(pred), len(target), ErrInputSize)
	}

	terms := make([]engine.Value, len(pred))
	for i := range pred {
		terms[i] = pred[i].Sub(target[i]).Square()
	}
	return engine.Sum(terms...).DivConst(float64(len(pred)))
}

// HingeLoss computes the max-margin loss mean(relu(1 - label_i * score_i))
// for labels in {-1, +1}.
func HingeLoss(scores []engine.Value, labels []float64) (engine.Value, error) {
	if len(scores) == 0 || len(scores) != len(labels) {
		return engine.Value{}, fmt.Errorf("hinge: %d scores, %d labels: %w", len(scores), len(labels), ErrInputSize)
	}

	terms := make([]engine.Value, len(scores))
	for i, s := range scores {
		terms[i] = s.MulConst(-labels[i]).AddConst(1).ReLU()
	}
	return engine.Sum(terms...).DivConst(float64(len(scores)))
}
