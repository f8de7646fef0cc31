// Package stats computes descriptive statistics over training pairs.
package stats

import (
	"sort"

	"github.com/samber/lo"

	"wordsim/internal/domain"
)

// TopWords is the number of most frequent words reported.
const TopWords = 10

// Compute aggregates pairs. It returns domain.ErrStatsUnavailable for an empty set.
func Compute(pairs []domain.TrainingPair) (domain.TrainingStats, error) {
	if len(pairs) == 0 {
		return domain.TrainingStats{}, domain.ErrStatsUnavailable
	}

	counts := map[string]int{}
	var order []string
	count := func(w string) {
		if _, ok := counts[w]; !ok {
			order = append(order, w)
		}
		counts[w]++
	}

	sum := 0.0
	minSim, maxSim := pairs[0].Similarity, pairs[0].Similarity
	for _, p := range pairs {
		count(p.WordA)
		count(p.WordB)
		sum += p.Similarity
		minSim = min(minSim, p.Similarity)
		maxSim = max(maxSim, p.Similarity)
	}

	// Stable sort keeps first-encountered order among equal counts.
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	top := lo.Map(order[:min(TopWords, len(order))], func(w string, _ int) domain.WordCount {
		return domain.WordCount{Word: w, Count: counts[w]}
	})

	return domain.TrainingStats{
		TotalPairs:    len(pairs),
		UniqueWords:   len(counts),
		AvgSimilarity: sum / float64(len(pairs)),
		MinSimilarity: minSim,
		MaxSimilarity: maxSim,
		TopWords:      top,
	}, nil
}
