package charhash

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestEmbedIsUnitLength(t *testing.T) {
	v, err := NewEmbedder().Embed(context.Background(), "Storage")
	require.NoError(t, err)
	require.Len(t, v, Dimension)
	assert.InDelta(t, 1, floats.Norm(v, 2), 1e-12)
}

func TestEmbedIsCaseInsensitive(t *testing.T) {
	e := NewEmbedder()
	a, _ := e.Embed(context.Background(), "Bucket")
	b, _ := e.Embed(context.Background(), "bucket")
	assert.Equal(t, a, b)
}

func TestEmbedEmptyText(t *testing.T) {
	v, err := NewEmbedder().Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, floats.Norm(v, 2))
}
