// Package results persists averaged landscapes, as a directory of
// per-(layer,dimension) CSV files and/or a single gob blob.
package results

import (
	"encoding/csv"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"nettopo/landscape"
)

// WriteCSV writes one single-column CSV of y-values per (layer, dimension)
// curve into dir, creating the directory if absent. Files are named
// layer<i>dim<j>.csv.
func WriteCSV(dir string, avg landscape.Landscape) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for layerID, layer := range avg {
		for dimID, curve := range layer {
			name := filepath.Join(dir, fmt.Sprintf("layer%ddim%d.csv", layerID, dimID))
			if err := writeCurve(name, curve); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCurve(name string, curve landscape.Curve) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, y := range curve.Y {
		if err := w.Write([]string{strconv.FormatFloat(y, 'g', -1, 64)}); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}

// Envelope is the blob payload: the averaged landscape tagged with the
// run that produced it.
type Envelope struct {
	RunID   string
	Average landscape.Landscape
}

// WriteBlob gob-encodes the envelope to path.
func WriteBlob(path string, env Envelope) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(env); err != nil {
		return fmt.Errorf("encoding landscape blob: %w", err)
	}
	return f.Close()
}

// ReadBlob decodes an envelope written by WriteBlob.
func ReadBlob(path string) (Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return Envelope{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var env Envelope
	if err := gob.NewDecoder(f).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decoding landscape blob: %w", err)
	}
	return env, nil
}
