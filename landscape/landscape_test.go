package landscape

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curve(ys ...float64) Curve {
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}
	return Curve{X: xs, Y: ys}
}

func TestGridPoints(t *testing.T) {
	pts := Grid{Min: 0, Max: 1, DX: 0.25}.Points()
	require.Len(t, pts, 5)
	assert.InDelta(t, 0, pts[0], 1e-12)
	assert.InDelta(t, 1, pts[4], 1e-12)
}

func TestAverage_ThreeNetworks(t *testing.T) {
	ls := []Landscape{
		{{curve(1, 2, 3)}},
		{{curve(3, 2, 1)}},
		{{curve(2, 2, 2)}},
	}
	avg, err := Average(ls)
	require.NoError(t, err)
	require.Len(t, avg, 1)
	require.Len(t, avg[0], 1)
	assert.Equal(t, []float64{2, 2, 2}, avg[0][0].Y)
	assert.Equal(t, []float64{0, 1, 2}, avg[0][0].X)
}

func TestAverage_IdenticalInputsAreAFixedPoint(t *testing.T) {
	l := Landscape{{curve(0.5, 1.5), curve(4, 8)}, {curve(7, 7)}}
	avg, err := Average([]Landscape{l, l, l})
	require.NoError(t, err)
	assertLandscapesEqual(t, l, avg)

	// re-averaging the average changes nothing
	again, err := Average([]Landscape{avg})
	require.NoError(t, err)
	assertLandscapesEqual(t, avg, again)
}

func TestAverage_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var ls []Landscape
	for n := 0; n < 5; n++ {
		ys := make([]float64, 4)
		for i := range ys {
			ys[i] = rng.Float64()
		}
		ls = append(ls, Landscape{{curve(ys...)}})
	}

	avg, err := Average(ls)
	require.NoError(t, err)

	perm := []Landscape{ls[3], ls[0], ls[4], ls[2], ls[1]}
	permAvg, err := Average(perm)
	require.NoError(t, err)

	for i := range avg[0][0].Y {
		assert.InDelta(t, avg[0][0].Y[i], permAvg[0][0].Y[i], 1e-12)
	}
}

func TestAverage_DimensionCountMismatch(t *testing.T) {
	a := Landscape{{curve(1, 2), curve(3, 4)}}
	b := Landscape{{curve(1, 2)}}
	_, err := Average([]Landscape{a, b})

	var sm *ShapeMismatchError
	require.ErrorAs(t, err, &sm)
	assert.Equal(t, 1, sm.Network)
}

func TestAverage_GridLengthMismatch(t *testing.T) {
	a := Landscape{{curve(1, 2, 3)}}
	b := Landscape{{curve(1, 2)}}
	_, err := Average([]Landscape{a, b})
	var sm *ShapeMismatchError
	require.ErrorAs(t, err, &sm)
}

func TestAverage_Empty(t *testing.T) {
	_, err := Average(nil)
	require.Error(t, err)
	var sm *ShapeMismatchError
	assert.False(t, errors.As(err, &sm), "empty input is not a shape mismatch")
}

func assertLandscapesEqual(t *testing.T, want, got Landscape) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i], len(want[i]))
		for j := range want[i] {
			for k := range want[i][j].Y {
				assert.InDelta(t, want[i][j].Y[k], got[i][j].Y[k], 1e-12)
			}
		}
	}
}
