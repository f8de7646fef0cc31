package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Epsilon is added under every square root of the loss.
const Epsilon = 1e-12

// LossResult is the contrastive loss of one pair and its gradient with
// respect to both raw (unnormalized) embeddings.
type LossResult struct {
	Loss     float64
	Distance float64
	GradA    []float64
	GradB    []float64
}

// ContrastiveLoss computes
//
//	y·d² + (1−y)·max(margin − d, 0)²
//
// where d is the Euclidean distance between the L2-normalized embeddings a and b
// and y is the soft similarity target.
func ContrastiveLoss(y float64, a, b []float64, margin float64) (LossResult, error) {
	if len(a) != len(b) {
		return LossResult{}, errors.Errorf("embedding length mismatch: %d != %d", len(a), len(b))
	}
	na, sa := l2Normalize(a)
	nb, sb := l2Normalize(b)

	diff := make([]float64, len(a))
	floats.SubTo(diff, na, nb)
	d := math.Sqrt(floats.Dot(diff, diff) + Epsilon)
	hinge := math.Max(margin-d, 0)
	loss := y*d*d + (1-y)*hinge*hinge
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return LossResult{}, errors.Errorf("non-finite loss %v", loss)
	}

	// dL/dd, then through d = |na - nb| and the normalizations.
	gd := 2*y*d - 2*(1-y)*hinge
	gna := make([]float64, len(a))
	floats.ScaleTo(gna, gd/d, diff)
	gnb := make([]float64, len(b))
	floats.ScaleTo(gnb, -1, gna)

	return LossResult{
		Loss:     loss,
		Distance: d,
		GradA:    normalizeGrad(na, sa, gna),
		GradB:    normalizeGrad(nb, sb, gnb),
	}, nil
}

// l2Normalize returns v / sqrt(|v|² + Epsilon) and that denominator.
func l2Normalize(v []float64) ([]float64, float64) {
	s := math.Sqrt(floats.Dot(v, v) + Epsilon)
	out := make([]float64, len(v))
	floats.ScaleTo(out, 1/s, v)
	return out, s
}

// normalizeGrad maps a gradient w.r.t. n = v/s back to v: (g − n(n·g)) / s.
func normalizeGrad(n []float64, s float64, g []float64) []float64 {
	out := make([]float64, len(g))
	copy(out, g)
	floats.AddScaled(out, -floats.Dot(n, g), n)
	floats.Scale(1/s, out)
	return out
}

// Cosine returns dot(a,b)/(|a||b|), or 0 when either norm is zero.
func Cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}
