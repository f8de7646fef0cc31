// Package charhash is a local, dependency-free generic embedder built from
// hashed character and bigram counts.
package charhash

import (
	"context"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	// Dimension of the produced vectors.
	Dimension = 128

	maxChars   = 32
	maxBigrams = 16
	half       = Dimension / 2
)

// Embedder implements domain.EmbeddingProvider.
type Embedder struct{}

// NewEmbedder creates a character-hash embedder.
func NewEmbedder() *Embedder { return &Embedder{} }

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "charhash" }

// Embed hashes the first characters and bigrams of text into a unit vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, Dimension)
	chars := []rune(strings.ToLower(text))
	for i := 0; i < len(chars) && i < maxChars; i++ {
		vec[int(chars[i])%Dimension]++
	}
	for i := 0; i < len(chars)-1 && i < maxBigrams; i++ {
		vec[int(chars[i]+chars[i+1])%half+half] += 0.5
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec, nil
}
