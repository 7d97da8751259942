package trainer

import (
	"context"
	"fmt"
	"time"

	"koreanparse/logger"
)

// Checkpoint is the training state recorded after each epoch. Model weights
// belong to the external learner and are not part of it.
type Checkpoint struct {
	Epoch    int       `json:"epoch"`
	Waiting  int       `json:"waiting"`
	MeanLoss float64   `json:"mean_loss"`
	IsBest   bool      `json:"is_best"`
	SavedAt  time.Time `json:"saved_at"`
}

// Checkpointer persists checkpoints.
type Checkpointer interface {
	Save(ctx context.Context, ck Checkpoint) error
}

// JSONCheckpointer writes Dir/Name.json and, for the best checkpoint so
// far, also Dir/Name_best.json.
type JSONCheckpointer struct {
	Dir  string
	Name string
}

// Save implements Checkpointer.
func (j JSONCheckpointer) Save(ctx context.Context, ck Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := logger.LogJSON(j.Dir, j.Name, ck); err != nil {
		return fmt.Errorf("trainer: save checkpoint: %w", err)
	}
	if ck.IsBest {
		if err := logger.LogJSON(j.Dir, j.Name+"_best", ck); err != nil {
			return fmt.Errorf("trainer: save best checkpoint: %w", err)
		}
	}
	return nil
}
