package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds the full run configuration
type Config struct {
	Iterations int
	CSVFile    string
	BatchSize  int
	Epochs     int
	LR         float64
	Gamma      float64
	Seed       int64

	// TrainingThresholds are per-iteration early-stop accuracies; empty
	// disables early stopping.
	TrainingThresholds []float64

	// landscape settings
	MaxDims     []int
	Thresholds  []float64
	Layers      []int
	DataSamples int
	DX          float64
	MinX        float64
	MaxX        float64

	// output settings
	Save    string
	SaveCSV bool
	OutDir  string

	HiddenLayerNeurons []int
}

// ParseIntList parses a comma-separated list of integers
func ParseIntList(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// ParseFloatList parses a comma-separated list of floats
func ParseFloatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// ValidateConfig validates the run configuration
func ValidateConfig(config *Config) error {
	if config.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive")
	}

	if config.CSVFile == "" {
		return fmt.Errorf("a csv input file must be specified")
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if config.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}

	if config.DataSamples <= 0 {
		return fmt.Errorf("data samples must be positive")
	}

	if len(config.Layers) == 0 {
		return fmt.Errorf("at least one layer index must be given for landscape computation")
	}

	if config.DX <= 0 {
		return fmt.Errorf("dx must be positive")
	}

	if config.MaxX <= config.MinX {
		return fmt.Errorf("max x must be greater than min x")
	}

	for _, t := range config.Thresholds {
		if t <= 0 {
			return fmt.Errorf("persistence thresholds must be positive")
		}
	}

	if len(config.HiddenLayerNeurons) == 0 {
		return fmt.Errorf("at least one hidden layer is required")
	}

	return nil
}
