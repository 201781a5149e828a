package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	adadeltaRho = 0.9
	adadeltaEps = 1e-6
)

// Adadelta keeps running averages of squared gradients and squared updates
// per parameter and scales each step by their ratio.
type Adadelta struct {
	lr    float64
	steps int

	params  []*mat.Dense
	grads   []*mat.Dense
	accGrad []*mat.Dense
	accUpd  []*mat.Dense
}

// NewAdadelta binds an optimizer to the model's parameters.
func NewAdadelta(m Model, lr float64) *Adadelta {
	o := &Adadelta{
		lr:     lr,
		params: m.Params(),
		grads:  m.Grads(),
	}
	for _, p := range o.params {
		r, c := p.Dims()
		o.accGrad = append(o.accGrad, mat.NewDense(r, c, nil))
		o.accUpd = append(o.accUpd, mat.NewDense(r, c, nil))
	}
	return o
}

// Step applies one parameter update from the current gradients.
func (o *Adadelta) Step() {
	for k, p := range o.params {
		g := o.grads[k]
		ag := o.accGrad[k]
		au := o.accUpd[k]
		rows, cols := p.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				gv := g.At(i, j)
				agv := adadeltaRho*ag.At(i, j) + (1-adadeltaRho)*gv*gv
				ag.Set(i, j, agv)
				upd := math.Sqrt(au.At(i, j)+adadeltaEps) / math.Sqrt(agv+adadeltaEps) * gv
				au.Set(i, j, adadeltaRho*au.At(i, j)+(1-adadeltaRho)*upd*upd)
				p.Set(i, j, p.At(i, j)-o.lr*upd)
			}
		}
	}
	o.steps++
}

// Steps reports how many updates have been applied.
func (o *Adadelta) Steps() int { return o.steps }

// LR reports the current learning rate.
func (o *Adadelta) LR() float64 { return o.lr }

// StepDecay multiplies the optimizer's learning rate by Gamma each time it
// is stepped, once per epoch.
type StepDecay struct {
	Gamma float64
	opt   *Adadelta
}

// NewStepDecay binds a geometric learning-rate schedule to opt.
func NewStepDecay(opt *Adadelta, gamma float64) *StepDecay {
	return &StepDecay{Gamma: gamma, opt: opt}
}

// Step advances the schedule.
func (s *StepDecay) Step() {
	s.opt.lr *= s.Gamma
}
