package landscape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// pointsModel exposes fixed point clouds as its activation layers.
type pointsModel struct{ layers []*mat.Dense }

func (p *pointsModel) Forward(x *mat.Dense) *mat.Dense { return x }

func (p *pointsModel) Infer(x *mat.Dense) *mat.Dense { return x }

func (p *pointsModel) Backward(*mat.Dense) {}

func (p *pointsModel) Activations(*mat.Dense) []*mat.Dense { return p.layers }

func (p *pointsModel) Params() []*mat.Dense { return nil }

func (p *pointsModel) Grads() []*mat.Dense { return nil }

func TestParams_ClampToLastEntry(t *testing.T) {
	p := Params{MaxDims: []int{0, 1}, Thresholds: []float64{2.5}}
	assert.Equal(t, 0, p.MaxDimFor(0))
	assert.Equal(t, 1, p.MaxDimFor(1))
	assert.Equal(t, 1, p.MaxDimFor(5))
	assert.Equal(t, 2.5, p.ThresholdFor(0))
	assert.Equal(t, 2.5, p.ThresholdFor(3))
}

func TestParams_EmptyDefaults(t *testing.T) {
	p := Params{}
	assert.Equal(t, 0, p.MaxDimFor(0))
	assert.True(t, math.IsInf(p.ThresholdFor(0), 1))
}

func TestRipsComputer_TwoClusters(t *testing.T) {
	// two tight pairs far apart: deaths 1, 1 and one bar capped at the
	// sweep threshold
	cloud := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
	m := &pointsModel{layers: []*mat.Dense{cloud}}

	grid := Grid{Min: 0, Max: 4, DX: 1}
	l, err := RipsComputer{}.Compute(m, nil, Params{
		MaxDims:    []int{0},
		Thresholds: []float64{4},
		Layers:     []int{0},
		Grid:       grid,
	})
	require.NoError(t, err)
	require.Len(t, l, 1)
	require.Len(t, l[0], 1)

	c := l[0][0]
	assert.Equal(t, grid.Points(), c.X)
	// tent of the capped bar [0,4): peaks at x=2
	assert.InDelta(t, 0, c.Y[0], 1e-12)
	assert.InDelta(t, 1, c.Y[1], 1e-12)
	assert.InDelta(t, 2, c.Y[2], 1e-12)
}

func TestRipsComputer_SharedGridAcrossLayers(t *testing.T) {
	a := mat.NewDense(3, 2, []float64{0, 0, 1, 0, 0, 1})
	b := mat.NewDense(3, 3, []float64{0, 0, 0, 2, 0, 0, 0, 2, 0})
	m := &pointsModel{layers: []*mat.Dense{a, b}}

	l, err := RipsComputer{}.Compute(m, nil, Params{
		Thresholds: []float64{5},
		Layers:     []int{0, 1},
		Grid:       Grid{Min: 0, Max: 10, DX: 0.5},
	})
	require.NoError(t, err)
	require.Len(t, l, 2)
	assert.Equal(t, len(l[0][0].Y), len(l[1][0].Y), "every layer samples the same grid")
}

func TestRipsComputer_RejectsHigherDimensions(t *testing.T) {
	m := &pointsModel{layers: []*mat.Dense{mat.NewDense(2, 1, []float64{0, 1})}}
	_, err := RipsComputer{}.Compute(m, nil, Params{
		MaxDims: []int{1},
		Layers:  []int{0},
		Grid:    Grid{Min: 0, Max: 1, DX: 0.5},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension")
}

func TestRipsComputer_LayerIndexOutOfRange(t *testing.T) {
	m := &pointsModel{layers: []*mat.Dense{mat.NewDense(2, 1, []float64{0, 1})}}
	_, err := RipsComputer{}.Compute(m, nil, Params{
		Layers: []int{3},
		Grid:   Grid{Min: 0, Max: 1, DX: 0.5},
	})
	require.Error(t, err)
}
