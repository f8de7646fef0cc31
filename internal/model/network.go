package model

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// HiddenUnits is the width of the hidden layer.
const HiddenUnits = 32

// Network is the shared-weight tower: one-hot input, a ReLU hidden layer and
// a linear output layer producing the embedding.
type Network struct {
	inputs, hidden, output int

	w1 *mat.Dense // inputs x hidden
	b1 *mat.VecDense
	w2 *mat.Dense // hidden x output
	b2 *mat.VecDense
}

// activations keeps what backward needs from one forward pass.
type activations struct {
	index int
	pre   *mat.VecDense
	h     *mat.VecDense
	out   *mat.VecDense
}

// NewNetwork creates a network with Xavier-uniform weights and zero biases.
func NewNetwork(inputs, embedDim int, rng *rand.Rand) (*Network, error) {
	if inputs <= 0 {
		return nil, errors.Errorf("invalid input size %d", inputs)
	}
	if embedDim <= 0 {
		return nil, errors.Errorf("invalid embedding dimension %d", embedDim)
	}
	return &Network{
		inputs: inputs,
		hidden: HiddenUnits,
		output: embedDim,
		w1:     mat.NewDense(inputs, HiddenUnits, xavier(inputs, HiddenUnits, rng)),
		b1:     mat.NewVecDense(HiddenUnits, nil),
		w2:     mat.NewDense(HiddenUnits, embedDim, xavier(HiddenUnits, embedDim, rng)),
		b2:     mat.NewVecDense(embedDim, nil),
	}, nil
}

func xavier(fanIn, fanOut int, rng *rand.Rand) []float64 {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return data
}

// InputSize is the vocabulary size the network was built for.
func (n *Network) InputSize() int { return n.inputs }

// OutputSize is the embedding dimension.
func (n *Network) OutputSize() int { return n.output }

// Forward runs a dense input vector through both layers.
func (n *Network) Forward(x []float64) ([]float64, error) {
	if len(x) != n.inputs {
		return nil, errors.Errorf("input length %d does not match network input %d", len(x), n.inputs)
	}
	pre := mat.NewVecDense(n.hidden, nil)
	pre.MulVec(n.w1.T(), mat.NewVecDense(n.inputs, x))
	pre.AddVec(pre, n.b1)
	return n.head(pre).RawVector().Data, nil
}

// forwardIndex is Forward for a one-hot input at index, reading a single row of w1.
func (n *Network) forwardIndex(index int) activations {
	pre := mat.NewVecDense(n.hidden, nil)
	floats.Add(pre.RawVector().Data, n.w1.RawRowView(index))
	pre.AddVec(pre, n.b1)
	h := relu(pre)
	out := mat.NewVecDense(n.output, nil)
	out.MulVec(n.w2.T(), h)
	out.AddVec(out, n.b2)
	return activations{index: index, pre: pre, h: h, out: out}
}

func (n *Network) head(pre *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(n.output, nil)
	out.MulVec(n.w2.T(), relu(pre))
	out.AddVec(out, n.b2)
	return out
}

func relu(v *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		if x := v.AtVec(i); x > 0 {
			out.SetVec(i, x)
		}
	}
	return out
}

// gradients mirrors the parameter shapes of a Network.
type gradients struct {
	w1 *mat.Dense
	b1 *mat.VecDense
	w2 *mat.Dense
	b2 *mat.VecDense

	touched []int
}

func newGradients(n *Network) *gradients {
	return &gradients{
		w1: mat.NewDense(n.inputs, n.hidden, nil),
		b1: mat.NewVecDense(n.hidden, nil),
		w2: mat.NewDense(n.hidden, n.output, nil),
		b2: mat.NewVecDense(n.output, nil),
	}
}

// backward accumulates the parameter gradients for one forward pass given
// the loss gradient with respect to its output.
func (n *Network) backward(act activations, dOut []float64, g *gradients) {
	de := mat.NewVecDense(n.output, dOut)
	g.w2.RankOne(g.w2, 1, act.h, de)
	g.b2.AddVec(g.b2, de)

	dh := mat.NewVecDense(n.hidden, nil)
	dh.MulVec(n.w2, de)
	for i := 0; i < n.hidden; i++ {
		if act.pre.AtVec(i) <= 0 {
			dh.SetVec(i, 0)
		}
	}
	floats.Add(g.w1.RawRowView(act.index), dh.RawVector().Data)
	g.b1.AddVec(g.b1, dh)
	g.touched = append(g.touched, act.index)
}

// reset zeroes the gradients. Only rows of w1 touched since the last reset can be non-zero.
func (g *gradients) reset() {
	for _, i := range g.touched {
		row := g.w1.RawRowView(i)
		for j := range row {
			row[j] = 0
		}
	}
	g.touched = g.touched[:0]
	g.b1.Zero()
	g.w2.Zero()
	g.b2.Zero()
}

// params returns the flat parameter slices in a fixed order.
func (n *Network) params() [][]float64 {
	return [][]float64{n.w1.RawMatrix().Data, n.b1.RawVector().Data, n.w2.RawMatrix().Data, n.b2.RawVector().Data}
}

func (g *gradients) params() [][]float64 {
	return [][]float64{g.w1.RawMatrix().Data, g.b1.RawVector().Data, g.w2.RawMatrix().Data, g.b2.RawVector().Data}
}
