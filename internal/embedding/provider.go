// Package embedding holds the generic text embedding providers the trained
// model is compared against.
package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"wordsim/internal/domain"
	"wordsim/internal/model"
)

// Similarity embeds a and b concurrently with p and returns their cosine similarity.
func Similarity(ctx context.Context, p domain.EmbeddingProvider, a, b string) (float64, error) {
	var va, vb []float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		va, err = p.Embed(gctx, a)
		return errors.Wrapf(err, "embed %q", a)
	})
	g.Go(func() error {
		var err error
		vb, err = p.Embed(gctx, b)
		return errors.Wrapf(err, "embed %q", b)
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if len(va) != len(vb) {
		return 0, errors.Errorf("vector length mismatch: %d != %d", len(va), len(vb))
	}
	return model.Cosine(va, vb), nil
}

// Cached memoizes the vectors of another provider in an LRU cache.
type Cached struct {
	next  domain.EmbeddingProvider
	cache *lru.Cache[string, []float64]
}

// NewCached wraps next with a cache holding up to size texts.
func NewCached(next domain.EmbeddingProvider, size int) (*Cached, error) {
	c, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, errors.Wrap(err, "create embedding cache")
	}
	return &Cached{next: next, cache: c}, nil
}

// Name returns the name of the wrapped provider.
func (c *Cached) Name() string { return c.next.Name() }

// Embed returns the cached vector for text or asks the wrapped provider.
func (c *Cached) Embed(ctx context.Context, text string) ([]float64, error) {
	if v, ok := c.cache.Get(text); ok {
		return append([]float64(nil), v...), nil
	}
	v, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, append([]float64(nil), v...))
	return v, nil
}
