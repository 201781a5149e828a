// Package landscape holds the topological summary types shared across the
// ensemble: per-layer, per-dimension persistence curves sampled on a fixed
// x-grid, and their elementwise average across networks.
package landscape

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Curve is one landscape function sampled on the shared x-grid.
type Curve struct {
	X []float64
	Y []float64
}

// Landscape is indexed [layer][homology dimension].
type Landscape [][]Curve

// Grid defines the shared x-grid the curves are sampled on.
type Grid struct {
	Min float64
	Max float64
	DX  float64
}

// Points materializes the grid, inclusive of Min and Max.
func (g Grid) Points() []float64 {
	var pts []float64
	// half-step tolerance so Max itself is included
	for x := g.Min; x <= g.Max+g.DX/2; x += g.DX {
		pts = append(pts, x)
	}
	return pts
}

// ShapeMismatchError reports a network whose landscape does not match the
// ensemble's shape. Averaging never truncates or pads to recover; a
// mismatch means the layer/dimension configuration differed between runs.
type ShapeMismatchError struct {
	Network int
	Want    string
	Got     string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("network %d landscape shape %s does not match ensemble shape %s",
		e.Network, e.Got, e.Want)
}

func describeShape(l Landscape) string {
	dims := make([]int, len(l))
	grid := 0
	for i, layer := range l {
		dims[i] = len(layer)
		if len(layer) > 0 {
			grid = len(layer[0].Y)
		}
	}
	return fmt.Sprintf("(layers=%d dims=%v grid=%d)", len(l), dims, grid)
}

func sameShape(a, b Landscape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if len(a[i][j].Y) != len(b[i][j].Y) || len(a[i][j].X) != len(b[i][j].X) {
				return false
			}
		}
	}
	return true
}

// Average computes the elementwise arithmetic mean of per-network
// landscapes. The x-grid is shared and carried through unchanged. Any
// disagreement in layer count, dimension count or grid length is a
// ShapeMismatchError naming the offending network.
func Average(all []Landscape) (Landscape, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("no landscapes to average")
	}
	ref := all[0]
	for n := 1; n < len(all); n++ {
		if !sameShape(ref, all[n]) {
			return nil, &ShapeMismatchError{
				Network: n,
				Want:    describeShape(ref),
				Got:     describeShape(all[n]),
			}
		}
	}

	scale := 1 / float64(len(all))
	out := make(Landscape, len(ref))
	for i, layer := range ref {
		out[i] = make([]Curve, len(layer))
		for j, c := range layer {
			x := make([]float64, len(c.X))
			copy(x, c.X)
			y := make([]float64, len(c.Y))
			for _, l := range all {
				floats.Add(y, l[i][j].Y)
			}
			floats.Scale(scale, y)
			out[i][j] = Curve{X: x, Y: y}
		}
	}
	return out, nil
}
