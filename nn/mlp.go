package nn

import (
	"math"
	"math/rand"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MLP is a fully connected classifier: ReLU hidden layers and a linear
// output layer producing logits.
type MLP struct {
	weights []*mat.Dense // (in x out) per layer
	biases  []*mat.Dense // (1 x out) per layer

	gradW []*mat.Dense
	gradB []*mat.Dense

	// cache from the last Forward, consumed by Backward
	input   *mat.Dense
	preacts []*mat.Dense
	acts    []*mat.Dense
}

// NewMLP builds a network with the given layer widths. Weights are drawn
// uniformly in [-1/sqrt(fanIn), 1/sqrt(fanIn)] from rng, so two networks
// built from equal-seeded generators are identical.
func NewMLP(inputs int, hidden []int, outputs int, rng *rand.Rand) *MLP {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, inputs)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, outputs)

	m := &MLP{}
	for i := 0; i+1 < len(sizes); i++ {
		in, out := sizes[i], sizes[i+1]
		m.weights = append(m.weights, mat.NewDense(in, out, randomArray(in*out, float64(in), rng)))
		m.biases = append(m.biases, mat.NewDense(1, out, nil))
		m.gradW = append(m.gradW, mat.NewDense(in, out, nil))
		m.gradB = append(m.gradB, mat.NewDense(1, out, nil))
	}
	return m
}

func randomArray(size int, fanIn float64, rng *rand.Rand) []float64 {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(fanIn),
		Max: 1 / math.Sqrt(fanIn),
		Src: exprand.NewSource(uint64(rng.Int63())),
	}
	data := make([]float64, size)
	for i := range data {
		data[i] = dist.Rand()
	}
	return data
}

func (m *MLP) run(x *mat.Dense) (preacts, acts []*mat.Dense) {
	cur := x
	last := len(m.weights) - 1
	for i, w := range m.weights {
		rows, _ := cur.Dims()
		_, out := w.Dims()
		z := mat.NewDense(rows, out, nil)
		z.Mul(cur, w)
		addRowVector(z, m.biases[i])
		preacts = append(preacts, z)

		a := z
		if i != last {
			a = mat.NewDense(rows, out, nil)
			a.Apply(func(_, _ int, v float64) float64 { return math.Max(0, v) }, z)
		}
		acts = append(acts, a)
		cur = a
	}
	return preacts, acts
}

// Forward computes logits for a batch, caching per-layer activations for
// a following Backward.
func (m *MLP) Forward(x *mat.Dense) *mat.Dense {
	m.input = x
	m.preacts, m.acts = m.run(x)
	return m.acts[len(m.acts)-1]
}

// Infer computes logits without touching the training cache.
func (m *MLP) Infer(x *mat.Dense) *mat.Dense {
	_, acts := m.run(x)
	return acts[len(acts)-1]
}

// Activations returns every layer's output for a batch: hidden layers
// after ReLU, then the logits. Does not touch the training cache.
func (m *MLP) Activations(x *mat.Dense) []*mat.Dense {
	_, acts := m.run(x)
	return acts
}

// Backward fills parameter gradients from the loss gradient with respect
// to the logits. Forward must have been called on the same batch first.
func (m *MLP) Backward(gradLogits *mat.Dense) {
	delta := gradLogits
	for i := len(m.weights) - 1; i >= 0; i-- {
		prev := m.input
		if i > 0 {
			prev = m.acts[i-1]
		}

		m.gradW[i].Mul(prev.T(), delta)
		colSums(m.gradB[i], delta)

		if i == 0 {
			break
		}
		rows, _ := delta.Dims()
		in, _ := m.weights[i].Dims()
		next := mat.NewDense(rows, in, nil)
		next.Mul(delta, m.weights[i].T())
		// ReLU gate on the upstream preactivation
		next.Apply(func(r, c int, v float64) float64 {
			if m.preacts[i-1].At(r, c) > 0 {
				return v
			}
			return 0
		}, next)
		delta = next
	}
}

// Params returns the trainable parameters, interleaved weight/bias per layer.
func (m *MLP) Params() []*mat.Dense {
	out := make([]*mat.Dense, 0, 2*len(m.weights))
	for i := range m.weights {
		out = append(out, m.weights[i], m.biases[i])
	}
	return out
}

// Grads returns the gradient buffers in the same order as Params.
func (m *MLP) Grads() []*mat.Dense {
	out := make([]*mat.Dense, 0, 2*len(m.gradW))
	for i := range m.gradW {
		out = append(out, m.gradW[i], m.gradB[i])
	}
	return out
}

// NumLayers reports the number of activation layers (hidden + output).
func (m *MLP) NumLayers() int { return len(m.weights) }

func addRowVector(dst *mat.Dense, row *mat.Dense) {
	rows, cols := dst.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst.Set(i, j, dst.At(i, j)+row.At(0, j))
		}
	}
}

func colSums(dst *mat.Dense, src *mat.Dense) {
	rows, cols := src.Dims()
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += src.At(i, j)
		}
		dst.Set(0, j, sum)
	}
}
