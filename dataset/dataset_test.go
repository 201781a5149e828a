package dataset

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

const toyCSV = `x,y,z,class
0.0,1.0,2.0,0
1.5,2.5,3.5,1
-1.0,0.0,1.0,0
4.0,5.0,6.0,2
`

func TestRead_SizeAndWidth(t *testing.T) {
	ds, err := Read(strings.NewReader(toyCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if ds.Len() != 4 {
		t.Fatalf("expected 4 samples (rows minus header), got %d", ds.Len())
	}
	if ds.NumFeatures() != 3 {
		t.Fatalf("expected 3 features (columns minus label), got %d", ds.NumFeatures())
	}
	if ds.NumClasses() != 3 {
		t.Fatalf("expected 3 classes, got %d", ds.NumClasses())
	}

	features, label := ds.At(1)
	if len(features) != 3 {
		t.Fatalf("feature vector length %d, want 3", len(features))
	}
	if features[0] != 1.5 || label != 1 {
		t.Fatalf("unexpected sample: %v label %d", features, label)
	}
}

func TestRead_NonNumericCell(t *testing.T) {
	_, err := Read(strings.NewReader("a,b,class\n1.0,oops,0\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Line != 2 {
		t.Fatalf("error should name line 2, got %d", pe.Line)
	}
}

func TestRead_InconsistentWidth(t *testing.T) {
	_, err := Read(strings.NewReader("a,b,class\n1,2,0\n1,2,3,0\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestRead_HeaderOnly(t *testing.T) {
	if _, err := Read(strings.NewReader("a,b,class\n")); err == nil {
		t.Fatal("expected an error for a header-only file")
	}
}

func TestSplit_Disjoint(t *testing.T) {
	ds, err := Read(strings.NewReader(toyCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	rest, held, err := ds.Split(rand.New(rand.NewSource(7)), 1)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if held.Len() != 1 || rest.Len() != 3 {
		t.Fatalf("split sizes %d/%d, want 3/1", rest.Len(), held.Len())
	}
	if rest.NumFeatures() != ds.NumFeatures() || held.NumFeatures() != ds.NumFeatures() {
		t.Fatal("splits must keep the feature width")
	}

	if _, _, err := ds.Split(rand.New(rand.NewSource(7)), 5); err == nil {
		t.Fatal("expected error holding out more samples than exist")
	}
}

func TestBatches_CoverDataset(t *testing.T) {
	ds, err := Read(strings.NewReader(toyCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	batches := ds.Batches(rand.New(rand.NewSource(1)), 3)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches of size 3+1, got %d", len(batches))
	}
	total := 0
	for _, b := range batches {
		rows, cols := b.Inputs.Dims()
		if rows != b.Len() || cols != ds.NumFeatures() {
			t.Fatalf("batch dims %dx%d inconsistent with %d labels", rows, cols, b.Len())
		}
		total += b.Len()
	}
	if total != ds.Len() {
		t.Fatalf("batches cover %d samples, want %d", total, ds.Len())
	}
}

func TestSampleBatch_ClampsToDatasetSize(t *testing.T) {
	ds, err := Read(strings.NewReader(toyCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	b := ds.SampleBatch(rand.New(rand.NewSource(2)), 100)
	if b.Len() != ds.Len() {
		t.Fatalf("oversized draw should clamp to %d, got %d", ds.Len(), b.Len())
	}
}
