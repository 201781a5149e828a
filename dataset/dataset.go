package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Sample is one labeled row: a list of coordinates followed by an integer
// class id.
type Sample struct {
	Features []float64
	Label    int
}

// Dataset holds every sample in memory. The entire file is loaded at once,
// so it can't be too huge.
type Dataset struct {
	samples     []Sample
	numFeatures int
	numClasses  int
}

// ParseError reports a malformed cell or row in the input CSV.
type ParseError struct {
	Line   int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv line %d: %s", e.Line, e.Detail)
}

// Load reads a CSV file with a header row into memory. Columns are
// x,y,z,...,class: every column but the last is a feature, the last is the
// integer class id. Every non-header cell must parse as a float and every
// row must have the same width.
func Load(filename string) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Read parses CSV rows from r. See Load.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	lineNum := 0
	width := 0
	var samples []Sample
	maxLabel := -1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		lineNum++
		if lineNum == 1 {
			// header row
			width = len(record)
			continue
		}
		if len(record) != width {
			return nil, &ParseError{
				Line:   lineNum,
				Detail: fmt.Sprintf("expected %d values, got %d", width, len(record)),
			}
		}
		if len(record) < 2 {
			return nil, &ParseError{Line: lineNum, Detail: "need at least one feature and a label"}
		}

		features := make([]float64, len(record)-1)
		for i := range features {
			x, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, &ParseError{
					Line:   lineNum,
					Detail: fmt.Sprintf("column %d: %q is not numeric", i+1, record[i]),
				}
			}
			features[i] = x
		}
		labelRaw, err := strconv.ParseFloat(record[len(record)-1], 64)
		if err != nil {
			return nil, &ParseError{
				Line:   lineNum,
				Detail: fmt.Sprintf("label %q is not numeric", record[len(record)-1]),
			}
		}
		label := int(labelRaw)
		if label > maxLabel {
			maxLabel = label
		}
		samples = append(samples, Sample{Features: features, Label: label})
	}

	if len(samples) == 0 {
		return nil, &ParseError{Line: lineNum, Detail: "no data rows after header"}
	}

	return &Dataset{
		samples:     samples,
		numFeatures: width - 1,
		numClasses:  maxLabel + 1,
	}, nil
}

// Len reports the number of samples.
func (d *Dataset) Len() int { return len(d.samples) }

// NumFeatures reports the feature-vector length shared by every sample.
func (d *Dataset) NumFeatures() int { return d.numFeatures }

// NumClasses reports max label + 1.
func (d *Dataset) NumClasses() int { return d.numClasses }

// At returns the i-th sample's feature vector and label.
func (d *Dataset) At(i int) ([]float64, int) {
	s := d.samples[i]
	return s.Features, s.Label
}

// Split draws n samples at random into a held-out dataset and returns
// (rest, heldOut). The two parts are disjoint.
func (d *Dataset) Split(rng *rand.Rand, n int) (*Dataset, *Dataset, error) {
	if n < 0 || n > len(d.samples) {
		return nil, nil, fmt.Errorf("cannot hold out %d of %d samples", n, len(d.samples))
	}
	perm := rng.Perm(len(d.samples))
	held := d.subset(perm[:n])
	rest := d.subset(perm[n:])
	return rest, held, nil
}

func (d *Dataset) subset(idx []int) *Dataset {
	samples := make([]Sample, len(idx))
	for i, j := range idx {
		samples[i] = d.samples[j]
	}
	return &Dataset{samples: samples, numFeatures: d.numFeatures, numClasses: d.numClasses}
}

// Batch is a dense feature matrix (one row per sample) with its labels.
type Batch struct {
	Inputs *mat.Dense
	Labels []int
}

// Len reports the number of samples in the batch.
func (b Batch) Len() int { return len(b.Labels) }

// Batches shuffles the dataset and chunks it into batches of at most
// batchSize samples. The final batch may be short.
func (d *Dataset) Batches(rng *rand.Rand, batchSize int) []Batch {
	perm := rng.Perm(len(d.samples))
	numBatches := (len(perm) + batchSize - 1) / batchSize
	batches := make([]Batch, 0, numBatches)
	for start := 0; start < len(perm); start += batchSize {
		end := start + batchSize
		if end > len(perm) {
			end = len(perm)
		}
		batches = append(batches, d.batchOf(perm[start:end]))
	}
	return batches
}

// Chunks splits the dataset in order into batches of at most batchSize
// samples, without shuffling. Used for full-dataset evaluation.
func (d *Dataset) Chunks(batchSize int) []Batch {
	batches := make([]Batch, 0, (len(d.samples)+batchSize-1)/batchSize)
	idx := make([]int, len(d.samples))
	for i := range idx {
		idx[i] = i
	}
	for start := 0; start < len(idx); start += batchSize {
		end := start + batchSize
		if end > len(idx) {
			end = len(idx)
		}
		batches = append(batches, d.batchOf(idx[start:end]))
	}
	return batches
}

// SampleBatch draws one random batch of up to size samples without
// replacement.
func (d *Dataset) SampleBatch(rng *rand.Rand, size int) Batch {
	if size > len(d.samples) {
		size = len(d.samples)
	}
	perm := rng.Perm(len(d.samples))
	return d.batchOf(perm[:size])
}

func (d *Dataset) batchOf(idx []int) Batch {
	inputs := mat.NewDense(len(idx), d.numFeatures, nil)
	labels := make([]int, len(idx))
	for i, j := range idx {
		inputs.SetRow(i, d.samples[j].Features)
		labels[i] = d.samples[j].Label
	}
	return Batch{Inputs: inputs, Labels: labels}
}
