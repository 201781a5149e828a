// Package trainer runs supervised training epochs with an accuracy-based
// early-stop rule, and evaluates trained networks.
package trainer

import (
	"fmt"
	"math"
	"math/rand"

	"nettopo/dataset"
	"nettopo/nn"
)

// Options configure one training epoch.
type Options struct {
	BatchSize int
	// EvalBatch is the size of the fresh evaluation batch drawn before
	// every parameter update.
	EvalBatch int
	// Threshold is the early-stop accuracy. math.Inf(1) disables the rule.
	Threshold float64
	// NetID identifies the network in printed status lines.
	NetID int
}

// Train runs one epoch over trainSet, shuffled with rng. Before every
// parameter update it draws a fresh batch from evalSet and checks its
// accuracy against the threshold; once the threshold is met the epoch
// ends immediately and the pending update is never applied, so the
// network is frozen at the accuracy that satisfied the check rather than
// overshooting past it. Reports whether the early stop fired.
func Train(m nn.Model, opt *nn.Adadelta, trainSet, evalSet *dataset.Dataset, o Options, rng *rand.Rand) (bool, error) {
	for _, batch := range trainSet.Batches(rng, o.BatchSize) {
		logits := m.Forward(batch.Inputs)
		loss, grad := nn.CrossEntropy(logits, batch.Labels)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return false, fmt.Errorf("network %d: training loss diverged (%v)", o.NetID, loss)
		}

		evalBatch := evalSet.SampleBatch(rng, o.EvalBatch)
		acc := EvaluateOnce(m, evalBatch)
		if acc >= o.Threshold {
			fmt.Printf("Network %d Status: Early terminated after passing training threshold of %v with %v\n",
				o.NetID, o.Threshold, acc)
			return true, nil
		}

		m.Backward(grad)
		opt.Step()
	}
	return false, nil
}

// EvaluateOnce reports the argmax accuracy of the model on a single batch.
func EvaluateOnce(m nn.Model, b dataset.Batch) float64 {
	pred := nn.Argmax(m.Infer(b.Inputs))
	correct := 0
	for i, p := range pred {
		if p == b.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(b.Len())
}

// Evaluate runs the model in inference mode over the whole dataset and
// reports accuracy and mean cross-entropy loss per sample.
func Evaluate(m nn.Model, ds *dataset.Dataset, batchSize int) (accuracy, meanLoss float64) {
	correct := 0
	totalLoss := 0.0
	for _, b := range ds.Chunks(batchSize) {
		logits := m.Infer(b.Inputs)
		loss, _ := nn.CrossEntropy(logits, b.Labels)
		totalLoss += loss * float64(b.Len())
		for i, p := range nn.Argmax(logits) {
			if p == b.Labels[i] {
				correct++
			}
		}
	}
	n := float64(ds.Len())
	return float64(correct) / n, totalLoss / n
}

// Report prints the test-set status line for one trained network.
func Report(m nn.Model, ds *dataset.Dataset, batchSize, netID int) {
	accuracy, loss := Evaluate(m, ds, batchSize)
	fmt.Printf("Network %d Status: Test set average loss: %.4f, Accuracy: %d/%d (%g%%)\n",
		netID, loss, int(accuracy*float64(ds.Len())), ds.Len(), 100*accuracy)
}
