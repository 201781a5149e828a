// Package ensemble trains a series of independently initialized networks
// and averages their activation-topology landscapes.
package ensemble

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"nettopo/dataset"
	"nettopo/landscape"
	"nettopo/nn"
	"nettopo/trainer"
	"nettopo/utils"
)

// Config carries every knob of one ensemble run.
type Config struct {
	Iterations int
	Epochs     int
	BatchSize  int
	LR         float64
	Gamma      float64
	Seed       int64

	// Thresholds are the per-iteration early-stop accuracies. Empty means
	// never stop early; a short list clamps to its last entry.
	Thresholds []float64

	// DataSamples is the size of the held-out pool (and batch) used for
	// landscape computation, and of the evaluation batches drawn during
	// training.
	DataSamples int

	Landscape landscape.Params
}

// ModelFactory builds a freshly initialized model from an
// iteration-scoped generator.
type ModelFactory func(rng *rand.Rand) nn.Model

// Result is what survives an ensemble run: the averaged landscape and the
// run's identifier.
type Result struct {
	RunID   string
	Average landscape.Landscape
	Timing  utils.TimingStats
}

// ThresholdFor resolves the early-stop accuracy for iteration it: the
// it-th entry, clamping to the last once the list runs out. An empty list
// disables early stopping.
func ThresholdFor(thresholds []float64, it int) float64 {
	if len(thresholds) == 0 {
		return math.Inf(1)
	}
	if it >= len(thresholds) {
		it = len(thresholds) - 1
	}
	return thresholds[it]
}

// Run trains cfg.Iterations networks one after another, computes each
// network's landscape on a batch from the held-out split, and averages
// the collected landscapes. Any training or shape failure aborts the
// whole run; averaging requires every network's landscape to be present.
func Run(cfg Config, ds *dataset.Dataset, newModel ModelFactory, comp landscape.Computer) (Result, error) {
	runID := uuid.NewString()
	fmt.Printf("Run %s: training ensemble of %d networks\n", runID, cfg.Iterations)

	// The held-out pool only gates landscape computation; training and
	// evaluation batches draw from the full dataset, as the original
	// experiment did.
	splitRng := rand.New(rand.NewSource(cfg.Seed))
	_, held, err := ds.Split(splitRng, cfg.DataSamples)
	if err != nil {
		return Result{}, err
	}

	var timing utils.TimingStats
	var perNetwork []landscape.Landscape
	for it := 0; it < cfg.Iterations; it++ {
		fmt.Printf("Beginning training of network %d\n", it)

		// iteration-scoped generator, so each network is reproducible
		// in isolation
		rng := rand.New(rand.NewSource(cfg.Seed + 1 + int64(it)))
		model := newModel(rng)
		opt := nn.NewAdadelta(model, cfg.LR)
		sched := nn.NewStepDecay(opt, cfg.Gamma)

		opts := trainer.Options{
			BatchSize: cfg.BatchSize,
			EvalBatch: cfg.DataSamples,
			Threshold: ThresholdFor(cfg.Thresholds, it),
			NetID:     it,
		}
		trainStart := time.Now()
		for epoch := 1; epoch <= cfg.Epochs; epoch++ {
			if _, err := trainer.Train(model, opt, ds, ds, opts, rng); err != nil {
				return Result{}, err
			}
			// the schedule advances once per epoch even after an early stop
			sched.Step()
		}
		timing.TrainingTime += time.Since(trainStart)
		trainer.Report(model, ds, cfg.BatchSize, it)

		fmt.Printf("Beginning landscape computation for network %d\n", it)
		landStart := time.Now()
		batch := held.SampleBatch(rng, cfg.DataSamples)
		l, err := comp.Compute(model, batch.Inputs, cfg.Landscape)
		if err != nil {
			return Result{}, fmt.Errorf("network %d: computing landscape: %w", it, err)
		}
		timing.LandscapeTime += time.Since(landStart)
		perNetwork = append(perNetwork, l)
	}

	avgStart := time.Now()
	avg, err := landscape.Average(perNetwork)
	if err != nil {
		return Result{}, err
	}
	timing.AveragingTime = time.Since(avgStart)
	return Result{RunID: runID, Average: avg, Timing: timing}, nil
}
