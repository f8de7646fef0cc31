package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordsim/internal/domain"
)

func TestCompute(t *testing.T) {
	pairs := []domain.TrainingPair{
		{WordA: "aws", WordB: "s3", Similarity: 1.0},
		{WordA: "aws", WordB: "ec2", Similarity: 0.5},
		{WordA: "s3", WordB: "bucket", Similarity: 0.2},
		{WordA: "ec2", WordB: "aws", Similarity: 0.3},
	}

	s, err := Compute(pairs)
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalPairs)
	assert.Equal(t, 4, s.UniqueWords)
	assert.InDelta(t, 0.5, s.AvgSimilarity, 1e-12)
	assert.Equal(t, 0.2, s.MinSimilarity)
	assert.Equal(t, 1.0, s.MaxSimilarity)
	assert.Equal(t, []domain.WordCount{
		{Word: "aws", Count: 3},
		{Word: "s3", Count: 2},
		{Word: "ec2", Count: 2},
		{Word: "bucket", Count: 1},
	}, s.TopWords)
}

func TestComputeLimitsTopWords(t *testing.T) {
	var pairs []domain.TrainingPair
	for i := 0; i < 15; i++ {
		pairs = append(pairs, domain.TrainingPair{WordA: "hub", WordB: fmt.Sprintf("w%02d", i), Similarity: 1})
	}

	s, err := Compute(pairs)
	require.NoError(t, err)
	require.Len(t, s.TopWords, TopWords)
	assert.Equal(t, domain.WordCount{Word: "hub", Count: 15}, s.TopWords[0])
	assert.Equal(t, "w00", s.TopWords[1].Word)
	assert.Equal(t, "w08", s.TopWords[9].Word)
	assert.Equal(t, 16, s.UniqueWords)
}

func TestComputeEmpty(t *testing.T) {
	_, err := Compute(nil)
	assert.ErrorIs(t, err, domain.ErrStatsUnavailable)
}
