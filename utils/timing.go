package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// TimingStats holds timing information for the phases of an ensemble run
type TimingStats struct {
	TotalTime       time.Duration
	DataLoadingTime time.Duration
	TrainingTime    time.Duration
	LandscapeTime   time.Duration
	AveragingTime   time.Duration
	WriteTime       time.Duration
}

// PrintTimingStats prints detailed timing statistics for a run of the
// given number of networks. Respects the Verbose flag - does nothing if
// Verbose is false.
func PrintTimingStats(stats *TimingStats, networks int) {
	if !Verbose || networks <= 0 || stats.TotalTime <= 0 {
		return
	}
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Total run time: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "Networks trained: %d\n", networks)
	fmt.Fprintln(Output, "\nBreakdown by phase:")
	fmt.Fprintf(Output, "  Data loading: %v (%.1f%%)\n", stats.DataLoadingTime, float64(stats.DataLoadingTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Training: %v (%.1f%%)\n", stats.TrainingTime, float64(stats.TrainingTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Landscape computation: %v (%.1f%%)\n", stats.LandscapeTime, float64(stats.LandscapeTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Averaging: %v (%.1f%%)\n", stats.AveragingTime, float64(stats.AveragingTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Result writing: %v (%.1f%%)\n", stats.WriteTime, float64(stats.WriteTime)/float64(stats.TotalTime)*100)
	fmt.Fprintln(Output, "\nPer-network averages:")
	fmt.Fprintf(Output, "  Training time: %v\n", stats.TrainingTime/time.Duration(networks))
	fmt.Fprintf(Output, "  Landscape time: %v\n", stats.LandscapeTime/time.Duration(networks))
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
