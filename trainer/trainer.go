// Package trainer drives an external learner over dataset loaders with
// early stopping and learning-rate decay.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"koreanparse/dataset"
)

// Step is the outcome of one batch.
type Step struct {
	Loss     float64
	Accuracy float64
	// N is the number of samples the step covered; 0 means the batch size.
	N int
}

// Model is the external learner.
type Model interface {
	TrainStep(ctx context.Context, b dataset.Batch) (Step, error)
	EvalStep(ctx context.Context, b dataset.Batch) (Step, error)
}

// LRAdjuster is implemented by models whose learning rate can be shrunk.
type LRAdjuster interface {
	AdjustLearningRate(shrink float64)
}

// Config controls the loop.
type Config struct {
	StartEpoch int `yaml:"start_epoch" json:"start_epoch"`
	Epochs     int `yaml:"epochs" json:"epochs"`
	// PrintFreq logs training progress every PrintFreq batches; 0 disables it.
	PrintFreq int `yaml:"print_freq" json:"print_freq"`
	// Patience stops training after this many epochs without improvement.
	Patience int `yaml:"patience" json:"patience"`
	// ShrinkEvery shrinks the learning rate each time the waiting count
	// reaches a multiple of it.
	ShrinkEvery  int     `yaml:"shrink_every" json:"shrink_every"`
	ShrinkFactor float64 `yaml:"shrink_factor" json:"shrink_factor"`
}

// DefaultConfig returns 1000 epochs, patience 20, shrinking by 0.8 every 8
// stale epochs.
func DefaultConfig() Config {
	return Config{
		Epochs:       1000,
		PrintFreq:    1,
		Patience:     20,
		ShrinkEvery:  8,
		ShrinkFactor: 0.8,
	}
}

// Validate checks the loop settings.
func (c Config) Validate() error {
	var errs []error
	if c.StartEpoch < 0 || c.Epochs < c.StartEpoch {
		errs = append(errs, fmt.Errorf("trainer: epochs range [%d, %d) is invalid", c.StartEpoch, c.Epochs))
	}
	if c.PrintFreq < 0 {
		errs = append(errs, fmt.Errorf("trainer: print_freq must not be negative"))
	}
	if c.Patience <= 0 {
		errs = append(errs, fmt.Errorf("trainer: patience must be positive, got %d", c.Patience))
	}
	if c.ShrinkEvery < 0 {
		errs = append(errs, fmt.Errorf("trainer: shrink_every must not be negative"))
	}
	if c.ShrinkFactor <= 0 || c.ShrinkFactor > 1 {
		errs = append(errs, fmt.Errorf("trainer: shrink_factor must be in (0, 1], got %v", c.ShrinkFactor))
	}
	return errors.Join(errs...)
}

// EpochStats summarises one epoch.
type EpochStats struct {
	Epoch         int           `json:"epoch"`
	TrainLoss     float64       `json:"train_loss"`
	TrainAccuracy float64       `json:"train_accuracy"`
	ValLoss       float64       `json:"val_loss"`
	ValAccuracy   float64       `json:"val_accuracy"`
	Waiting       int           `json:"waiting"`
	IsBest        bool          `json:"is_best"`
	Duration      time.Duration `json:"duration"`
}

// Summary is the result of Run.
type Summary struct {
	BestLoss     float64      `json:"best_loss"`
	BestEpoch    int          `json:"best_epoch"`
	StoppedEarly bool         `json:"stopped_early"`
	Shrinks      int          `json:"shrinks"`
	History      []EpochStats `json:"history"`
}

// Run trains m until cfg.Epochs or until validation loss has not improved
// for cfg.Patience epochs. ck may be nil.
func Run(ctx context.Context, cfg Config, m Model, train, val *dataset.Loader, ck Checkpointer) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if m == nil || train == nil || val == nil {
		return Summary{}, errors.New("trainer: model and loaders are required")
	}

	sum := Summary{BestLoss: math.Inf(1), BestEpoch: -1}
	waiting := 0
	for epoch := cfg.StartEpoch; epoch < cfg.Epochs; epoch++ {
		if waiting >= cfg.Patience {
			sum.StoppedEarly = true
			slog.Info("early stopping", "epoch", epoch, "waiting", waiting)
			break
		}
		if cfg.ShrinkEvery > 0 && waiting > 0 && waiting%cfg.ShrinkEvery == 0 {
			if adj, ok := m.(LRAdjuster); ok {
				adj.AdjustLearningRate(cfg.ShrinkFactor)
				sum.Shrinks++
				slog.Info("learning rate shrunk", "epoch", epoch, "factor", cfg.ShrinkFactor)
			}
		}

		start := time.Now()
		trainLoss, trainAcc, err := runEpoch(ctx, train, epoch, cfg.PrintFreq, m.TrainStep)
		if err != nil {
			return sum, fmt.Errorf("trainer: epoch %d train: %w", epoch, err)
		}
		valLoss, valAcc, err := runEpoch(ctx, val, epoch, 0, m.EvalStep)
		if err != nil {
			return sum, fmt.Errorf("trainer: epoch %d validate: %w", epoch, err)
		}

		isBest := valLoss < sum.BestLoss
		if isBest {
			sum.BestLoss, sum.BestEpoch = valLoss, epoch
			waiting = 0
		} else {
			waiting++
		}
		stats := EpochStats{
			Epoch:         epoch,
			TrainLoss:     trainLoss,
			TrainAccuracy: trainAcc,
			ValLoss:       valLoss,
			ValAccuracy:   valAcc,
			Waiting:       waiting,
			IsBest:        isBest,
			Duration:      time.Since(start),
		}
		sum.History = append(sum.History, stats)
		slog.Info("epoch done",
			"epoch", epoch,
			"train_loss", trainLoss,
			"val_loss", valLoss,
			"val_accuracy", valAcc,
			"waiting", waiting,
			"best", isBest,
		)

		if ck != nil {
			err := ck.Save(ctx, Checkpoint{
				Epoch:    epoch,
				Waiting:  waiting,
				MeanLoss: valLoss,
				IsBest:   isBest,
				SavedAt:  time.Now().UTC(),
			})
			if err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

type stepFunc func(context.Context, dataset.Batch) (Step, error)

func runEpoch(ctx context.Context, l *dataset.Loader, epoch, printFreq int, step stepFunc) (loss, acc float64, err error) {
	var losses, accs AverageMeter
	n := l.NumBatches()
	err = l.Epoch(ctx, func(b dataset.Batch) error {
		s, err := step(ctx, b)
		if err != nil {
			return err
		}
		size := s.N
		if size == 0 {
			size = len(b.Items)
		}
		losses.Update(s.Loss, size)
		accs.Update(s.Accuracy, size)
		if printFreq > 0 && b.Index%printFreq == 0 {
			slog.Debug("batch",
				"epoch", epoch,
				"batch", fmt.Sprintf("%d/%d", b.Index+1, n),
				"loss", losses.Val(),
				"loss_avg", losses.Avg(),
				"accuracy_avg", accs.Avg(),
			)
		}
		return nil
	})
	return losses.Avg(), accs.Avg(), err
}
