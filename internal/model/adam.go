package model

import "math"

// Adam hyperparameters other than the learning rate.
const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

// adam is an Adam optimizer over a fixed list of flat parameter slices.
type adam struct {
	lr   float64
	step int
	m, v [][]float64
}

func newAdam(lr float64, params [][]float64) *adam {
	o := &adam{lr: lr, m: make([][]float64, len(params)), v: make([][]float64, len(params))}
	for i, p := range params {
		o.m[i] = make([]float64, len(p))
		o.v[i] = make([]float64, len(p))
	}
	return o
}

// update applies one step to params given grads of the same shapes.
func (o *adam) update(params, grads [][]float64) {
	o.step++
	c1 := 1 - math.Pow(adamBeta1, float64(o.step))
	c2 := 1 - math.Pow(adamBeta2, float64(o.step))
	for i, p := range params {
		g, m, v := grads[i], o.m[i], o.v[i]
		for j := range p {
			m[j] = adamBeta1*m[j] + (1-adamBeta1)*g[j]
			v[j] = adamBeta2*v[j] + (1-adamBeta2)*g[j]*g[j]
			p[j] -= o.lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + adamEpsilon)
		}
	}
}
