// Command prep builds the encoded training data for the external learner:
// it loads the corpus and vocabulary, splits train and validation sets and
// writes one epoch of batches from each as JSON lines.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"koreanparse/config"
	"koreanparse/dataset"
	"koreanparse/ingest"
	"koreanparse/logger"
	"koreanparse/observe"
	"koreanparse/phonemize"
	"koreanparse/trainer"
	"koreanparse/vocab"
)

// record is one JSON line of output.
type record struct {
	Split string        `json:"split"`
	Batch dataset.Batch `json:"batch"`
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML configuration file (defaults apply when empty)")
	outPath := flag.String("out", "-", `output file for JSON lines, "-" for stdout`)
	baseline := flag.Int("baseline-epochs", 0, "also run the copy baseline through the training loop for this many epochs")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "prep: config file %q not found\n", *configPath)
			} else {
				fmt.Fprintf(os.Stderr, "prep: %v\n", err)
			}
			return 1
		}
		cfg = *loaded
	}

	log, err := logger.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prep: %v\n", err)
		return 1
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var w io.Writer = os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			slog.Error("failed to create output", "path", *outPath, "err", err)
			return 1
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	if err := prep(ctx, cfg, bw, *baseline); err != nil {
		slog.Error("prep failed", "err", err)
		return 1
	}
	return 0
}

func prep(ctx context.Context, cfg config.Config, w io.Writer, baselineEpochs int) error {
	sentences, err := ingest.LoadCorpus(cfg.Data.Corpus)
	if err != nil {
		return err
	}
	v, err := vocab.LoadFile(cfg.Data.TokensMap)
	if err != nil {
		return err
	}
	slog.Info("inputs loaded", "sentences", len(sentences), "vocab_size", v.Len())

	if cfg.Data.VectorsMap != "" {
		vs, err := vocab.LoadVectorsFile(cfg.Data.VectorsMap)
		if err != nil {
			return err
		}
		matrix, missing := vs.Matrix(v)
		slog.Info("embeddings aligned", "rows", len(matrix), "dim", vs.Dim(), "missing", missing)
	}

	seg, err := config.NewSegmenter(cfg.Segmenter)
	if err != nil {
		return err
	}
	dec := phonemize.New(seg, phonemize.WithInjector(config.NewInjector(cfg.Noise)))
	ds, err := dataset.New(sentences, dec, v, cfg.Dataset, dataset.WithMetrics(observe.DefaultMetrics()))
	if err != nil {
		return err
	}

	trainIdx, valIdx := dataset.Split(ds.Len(), cfg.Split.Validation, cfg.Split.Shuffle, cfg.Split.Seed)
	opts := []dataset.LoaderOption{
		dataset.WithDropLast(cfg.Split.DropLast),
		dataset.WithWorkers(cfg.Split.Workers),
		dataset.WithShuffleSeed(cfg.Split.Seed),
	}
	train, err := dataset.NewLoader(ds, trainIdx, cfg.Split.BatchSize, opts...)
	if err != nil {
		return err
	}
	val, err := dataset.NewLoader(ds, valIdx, cfg.Split.BatchSize, opts...)
	if err != nil {
		return err
	}
	slog.Info("split", "train", train.Len(), "validation", val.Len(),
		"train_batches", train.NumBatches(), "validation_batches", val.NumBatches())

	enc := json.NewEncoder(w)
	for _, part := range []struct {
		name string
		l    *dataset.Loader
	}{{"train", train}, {"validation", val}} {
		err := part.l.Epoch(ctx, func(b dataset.Batch) error {
			return enc.Encode(record{Split: part.name, Batch: b})
		})
		if err != nil {
			return fmt.Errorf("%s epoch: %w", part.name, err)
		}
	}

	if baselineEpochs <= 0 {
		return nil
	}
	tcfg := cfg.Train
	tcfg.Epochs = tcfg.StartEpoch + baselineEpochs
	sum, err := trainer.Run(ctx, tcfg, trainer.CopyBaseline{}, train, val,
		trainer.JSONCheckpointer{Dir: cfg.Log.Dir, Name: "checkpoint"})
	if err != nil {
		return err
	}
	slog.Info("copy baseline done", "best_loss", sum.BestLoss, "best_epoch", sum.BestEpoch)
	return logger.LogJSON(cfg.Log.Dir, "baseline_summary", sum)
}
