package landscape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"nettopo/nn"
)

// Params select which layers to summarize and how.
type Params struct {
	// MaxDims gives the maximum homology dimension per selected layer.
	// Like the early-stop threshold list, a short list clamps to its last
	// entry.
	MaxDims []int
	// Thresholds caps the persistence sweep per selected layer, with the
	// same clamping rule.
	Thresholds []float64
	// Layers are the indices into the model's activation layers.
	Layers []int
	Grid   Grid
}

// MaxDimFor resolves the homology max-dimension for the i-th selected layer.
func (p Params) MaxDimFor(i int) int {
	if len(p.MaxDims) == 0 {
		return 0
	}
	if i >= len(p.MaxDims) {
		i = len(p.MaxDims) - 1
	}
	return p.MaxDims[i]
}

// ThresholdFor resolves the persistence threshold for the i-th selected layer.
func (p Params) ThresholdFor(i int) float64 {
	if len(p.Thresholds) == 0 {
		return math.Inf(1)
	}
	if i >= len(p.Thresholds) {
		i = len(p.Thresholds) - 1
	}
	return p.Thresholds[i]
}

// Computer turns a trained model's activation geometry into a Landscape.
// Implementations are interchangeable; the ensemble driver treats this as
// a black box.
type Computer interface {
	Compute(m nn.Model, data *mat.Dense, p Params) (Landscape, error)
}

// RipsComputer summarizes each selected layer's activation point cloud by
// its dimension-0 persistence: connected components merging under a
// growing distance threshold. Component deaths are the single-linkage
// merge distances, capped at the per-layer threshold, and the resulting
// diagram is sampled as a persistence landscape on the grid. Homology
// dimensions above 0 are not supported; substitute another Computer for
// loops and higher features.
type RipsComputer struct{}

func (RipsComputer) Compute(m nn.Model, data *mat.Dense, p Params) (Landscape, error) {
	acts := m.Activations(data)
	out := make(Landscape, len(p.Layers))
	for i, layerIdx := range p.Layers {
		if layerIdx < 0 || layerIdx >= len(acts) {
			return nil, fmt.Errorf("layer index %d out of range (model has %d layers)", layerIdx, len(acts))
		}
		maxDim := p.MaxDimFor(i)
		if maxDim > 0 {
			return nil, fmt.Errorf("layer %d: homology dimension %d not supported by RipsComputer (dimension 0 only)",
				layerIdx, maxDim)
		}
		deaths := singleLinkageDeaths(acts[layerIdx], p.ThresholdFor(i))
		out[i] = []Curve{sampleLandscape(deaths, p.Grid)}
	}
	return out, nil
}

// singleLinkageDeaths computes the dimension-0 persistence deaths of a
// point cloud: the edge lengths of its Euclidean minimum spanning tree,
// plus the one component that never dies, all capped at threshold.
func singleLinkageDeaths(cloud *mat.Dense, threshold float64) []float64 {
	n, _ := cloud.Dims()
	if n == 0 {
		return nil
	}

	// Prim's algorithm over the full distance graph
	inTree := make([]bool, n)
	minDist := make([]float64, n)
	for i := range minDist {
		minDist[i] = math.Inf(1)
	}
	minDist[0] = 0

	deaths := make([]float64, 0, n)
	for range minDist {
		best := -1
		for j := 0; j < n; j++ {
			if !inTree[j] && (best == -1 || minDist[j] < minDist[best]) {
				best = j
			}
		}
		inTree[best] = true
		if minDist[best] > 0 {
			deaths = append(deaths, math.Min(minDist[best], threshold))
		}
		for j := 0; j < n; j++ {
			if !inTree[j] {
				if d := euclidean(cloud, best, j); d < minDist[j] {
					minDist[j] = d
				}
			}
		}
	}
	// the surviving component's bar is truncated at the sweep cap
	if !math.IsInf(threshold, 1) {
		deaths = append(deaths, threshold)
	}
	return deaths
}

func euclidean(cloud *mat.Dense, a, b int) float64 {
	_, cols := cloud.Dims()
	sum := 0.0
	for k := 0; k < cols; k++ {
		d := cloud.At(a, k) - cloud.At(b, k)
		sum += d * d
	}
	return math.Sqrt(sum)
}

// sampleLandscape evaluates the first persistence landscape of bars
// [0, death) on the grid: the largest tent function value at each x.
func sampleLandscape(deaths []float64, g Grid) Curve {
	xs := g.Points()
	ys := make([]float64, len(xs))
	for i, x := range xs {
		best := 0.0
		for _, d := range deaths {
			// tent over [birth, death) with birth fixed at 0
			v := math.Min(x, d-x)
			if v > best {
				best = v
			}
		}
		ys[i] = best
	}
	return Curve{X: xs, Y: ys}
}
