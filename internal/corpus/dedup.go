package corpus

import "wordsim/internal/domain"

// PairKey is the order-independent key of a word pair.
func PairKey(a, b string) string {
	if a < b {
		return a + "|" + b
	}
	return b + "|" + a
}

// Dedup keeps, for every unordered pair, the observation with the highest
// similarity. Surviving pairs are returned in the order their key was first seen.
func Dedup(pairs []domain.TrainingPair) []domain.TrainingPair {
	index := make(map[string]int, len(pairs))
	out := make([]domain.TrainingPair, 0, len(pairs))
	for _, p := range pairs {
		key := PairKey(p.WordA, p.WordB)
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, p)
			continue
		}
		if out[i].Similarity < p.Similarity {
			out[i] = p
		}
	}
	return out
}

// FallbackPairs is the built-in bootstrap set used when no corpus can be read.
func FallbackPairs() []domain.TrainingPair {
	return []domain.TrainingPair{
		{WordA: "aws", WordB: "s3", Similarity: 1.0},
		{WordA: "aws", WordB: "ec2", Similarity: 1.0},
		{WordA: "s3", WordB: "storage", Similarity: 1.0},
		{WordA: "s3", WordB: "bucket", Similarity: 1.0},
		{WordA: "ec2", WordB: "instance", Similarity: 1.0},
		{WordA: "ec2", WordB: "virtual", Similarity: 0.5},
		{WordA: "azure", WordB: "blob", Similarity: 1.0},
		{WordA: "azure", WordB: "storage", Similarity: 0.5},
		{WordA: "gcp", WordB: "bucket", Similarity: 0.5},
		{WordA: "aws", WordB: "azure", Similarity: 0.3},
		{WordA: "aws", WordB: "database", Similarity: 0.1},
		{WordA: "storage", WordB: "compute", Similarity: 0.0},
	}
}
