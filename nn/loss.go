package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Softmax applies a row-wise softmax, shifting by the row max for
// numerical stability.
func Softmax(logits *mat.Dense) *mat.Dense {
	rows, cols := logits.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		maxLogit := logits.At(i, 0)
		for j := 1; j < cols; j++ {
			if v := logits.At(i, j); v > maxLogit {
				maxLogit = v
			}
		}
		expSum := 0.0
		for j := 0; j < cols; j++ {
			e := math.Exp(logits.At(i, j) - maxLogit)
			out.Set(i, j, e)
			expSum += e
		}
		for j := 0; j < cols; j++ {
			out.Set(i, j, out.At(i, j)/expSum)
		}
	}
	return out
}

// CrossEntropy computes the mean cross-entropy of logits against integer
// labels, along with the gradient of that mean with respect to the logits.
// grad = (softmax_output - one_hot_label) / batch
func CrossEntropy(logits *mat.Dense, labels []int) (float64, *mat.Dense) {
	rows, cols := logits.Dims()
	probs := Softmax(logits)
	n := float64(rows)

	loss := 0.0
	grad := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		loss += -math.Log(probs.At(i, labels[i]))
		for j := 0; j < cols; j++ {
			g := probs.At(i, j)
			if j == labels[i] {
				g -= 1
			}
			grad.Set(i, j, g/n)
		}
	}
	return loss / n, grad
}

// Argmax returns the index of the largest value in each row.
func Argmax(m *mat.Dense) []int {
	rows, cols := m.Dims()
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		best := 0
		for j := 1; j < cols; j++ {
			if m.At(i, j) > m.At(i, best) {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
