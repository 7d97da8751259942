package trainer

import (
	"context"

	"koreanparse/dataset"
)

// CopyBaseline is a Model that predicts the noisy input unchanged. Its loss
// is the share of non-padding clean ids the input gets wrong, which is the
// error rate a corrector has to beat.
type CopyBaseline struct{}

// TrainStep implements Model. Nothing is learned.
func (CopyBaseline) TrainStep(ctx context.Context, b dataset.Batch) (Step, error) {
	return copyStep(ctx, b)
}

// EvalStep implements Model.
func (CopyBaseline) EvalStep(ctx context.Context, b dataset.Batch) (Step, error) {
	return copyStep(ctx, b)
}

func copyStep(ctx context.Context, b dataset.Batch) (Step, error) {
	if err := ctx.Err(); err != nil {
		return Step{}, err
	}
	var outputs, targets []float64
	for _, it := range b.Items {
		for r, row := range it.Clean {
			for c, id := range row {
				if id == 0 {
					continue
				}
				targets = append(targets, 1)
				if it.Noisy[r][c] == id {
					outputs = append(outputs, 1)
				} else {
					outputs = append(outputs, 0)
				}
			}
		}
	}
	if len(targets) == 0 {
		return Step{N: len(b.Items)}, nil
	}
	acc := Accuracy(outputs, targets)
	return Step{Loss: 1 - acc, Accuracy: acc, N: len(b.Items)}, nil
}
