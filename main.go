package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"nettopo/dataset"
	"nettopo/ensemble"
	"nettopo/landscape"
	"nettopo/nn"
	"nettopo/results"
	"nettopo/utils"
)

func main() {
	flagIterations := flag.Int("iterations", 16, "number of independently trained networks")
	flagCSVFile := flag.String("csv", "disk2.csv", "input CSV file (features then one label column)")
	flagTrainingThreshold := flag.String("training-threshold", "", "training accuracy threshold(s), comma-separated; empty disables early stopping")
	flagBatchSize := flag.Int("batch-size", 64, "input batch size for training")
	flagEpochs := flag.Int("epochs", 2, "number of epochs to train")
	flagLR := flag.Float64("lr", 1.0, "learning rate")
	flagGamma := flag.Float64("gamma", 0.7, "learning rate step gamma")
	flagSeed := flag.Int64("seed", 1, "random seed")
	flagHidden := flag.String("hidden", "32,16", "hidden layer sizes (comma-separated)")

	flagMaxDim := flag.String("maxdim", "0", "max homology dimension(s) per selected layer")
	flagThreshold := flag.String("threshold", "10", "persistence threshold(s) per selected layer")
	flagLayers := flag.String("layers", "1", "layer indices to compute landscapes at")
	flagDataSamples := flag.Int("data-samples", 1000, "held-out samples passed through each network for activations")
	flagDX := flag.Float64("dx", 0.1, "x-spacing for landscape sampling")
	flagMinX := flag.Float64("min-x", 0, "min x to sample landscape")
	flagMaxX := flag.Float64("max-x", 10, "max x to sample landscape")

	flagSave := flag.String("save", "", "save the averaged landscape blob to this file")
	flagSaveCSV := flag.Bool("save-csv", true, "save per-(layer,dimension) csv files")
	flagOut := flag.String("out", "landscapes_csv", "output directory for csv files")
	flag.Parse()

	trainingThresholds, err := utils.ParseFloatList(*flagTrainingThreshold)
	if err != nil {
		fatalf("parsing training thresholds: %s", err)
	}
	maxDims, err := utils.ParseIntList(*flagMaxDim)
	if err != nil {
		fatalf("parsing maxdim: %s", err)
	}
	thresholds, err := utils.ParseFloatList(*flagThreshold)
	if err != nil {
		fatalf("parsing thresholds: %s", err)
	}
	layers, err := utils.ParseIntList(*flagLayers)
	if err != nil {
		fatalf("parsing layers: %s", err)
	}
	hidden, err := utils.ParseIntList(*flagHidden)
	if err != nil {
		fatalf("parsing hidden layers: %s", err)
	}

	config := utils.Config{
		Iterations:         *flagIterations,
		CSVFile:            *flagCSVFile,
		BatchSize:          *flagBatchSize,
		Epochs:             *flagEpochs,
		LR:                 *flagLR,
		Gamma:              *flagGamma,
		Seed:               *flagSeed,
		TrainingThresholds: trainingThresholds,
		MaxDims:            maxDims,
		Thresholds:         thresholds,
		Layers:             layers,
		DataSamples:        *flagDataSamples,
		DX:                 *flagDX,
		MinX:               *flagMinX,
		MaxX:               *flagMaxX,
		Save:               *flagSave,
		SaveCSV:            *flagSaveCSV,
		OutDir:             *flagOut,
		HiddenLayerNeurons: hidden,
	}
	if err := utils.ValidateConfig(&config); err != nil {
		fatalf("invalid configuration: %s", err)
	}

	runStart := time.Now()
	ds, err := dataset.Load(config.CSVFile)
	if err != nil {
		fatalf("loading dataset: %s", err)
	}
	dataLoadTime := time.Since(runStart)
	if config.DataSamples > ds.Len() {
		fatalf("data samples (%d) exceeds dataset size (%d)", config.DataSamples, ds.Len())
	}

	cfg := ensemble.Config{
		Iterations:  config.Iterations,
		Epochs:      config.Epochs,
		BatchSize:   config.BatchSize,
		LR:          config.LR,
		Gamma:       config.Gamma,
		Seed:        config.Seed,
		Thresholds:  config.TrainingThresholds,
		DataSamples: config.DataSamples,
		Landscape: landscape.Params{
			MaxDims:    config.MaxDims,
			Thresholds: config.Thresholds,
			Layers:     config.Layers,
			Grid:       landscape.Grid{Min: config.MinX, Max: config.MaxX, DX: config.DX},
		},
	}

	newModel := func(rng *rand.Rand) nn.Model {
		return nn.NewMLP(ds.NumFeatures(), config.HiddenLayerNeurons, ds.NumClasses(), rng)
	}

	result, err := ensemble.Run(cfg, ds, newModel, landscape.RipsComputer{})
	if err != nil {
		fatalf("ensemble run failed: %s", err)
	}

	writeStart := time.Now()
	if config.SaveCSV {
		if err := results.WriteCSV(config.OutDir, result.Average); err != nil {
			fatalf("writing csv results: %s", err)
		}
	}
	if config.Save != "" {
		env := results.Envelope{RunID: result.RunID, Average: result.Average}
		if err := results.WriteBlob(config.Save, env); err != nil {
			fatalf("writing landscape blob: %s", err)
		}
	}

	timing := result.Timing
	timing.DataLoadingTime = dataLoadTime
	timing.WriteTime = time.Since(writeStart)
	timing.TotalTime = time.Since(runStart)
	utils.PrintTimingStats(&timing, config.Iterations)
}

func fatalf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
