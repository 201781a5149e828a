package nn

import "gonum.org/v1/gonum/mat"

// Model is a trainable classifier. Forward takes a batch (one row per
// sample) and produces class logits; Backward takes the gradient of the
// loss with respect to those logits and fills the parameter gradients
// read by the optimizer.
type Model interface {
	Forward(x *mat.Dense) *mat.Dense
	Backward(gradLogits *mat.Dense)
	// Infer computes logits in inference mode, leaving the training
	// cache consumed by Backward untouched.
	Infer(x *mat.Dense) *mat.Dense
	// Activations runs a forward pass and returns the per-layer activation
	// point clouds, one matrix per layer, ending with the logits.
	Activations(x *mat.Dense) []*mat.Dense
	Params() []*mat.Dense
	Grads() []*mat.Dense
}
