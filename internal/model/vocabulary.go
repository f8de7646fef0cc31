package model

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"wordsim/internal/domain"
)

// Vocabulary is a sorted, case-insensitive word to index mapping.
type Vocabulary struct {
	words []string
	index map[string]int
}

// NewVocabulary collects the distinct lower-cased words of pairs, sorted lexicographically.
func NewVocabulary(pairs []domain.TrainingPair) *Vocabulary {
	words := lo.Uniq(lo.FlatMap(pairs, func(p domain.TrainingPair, _ int) []string {
		return []string{strings.ToLower(p.WordA), strings.ToLower(p.WordB)}
	}))
	sort.Strings(words)
	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w] = i
	}
	return &Vocabulary{words: words, index: index}
}

// Has reports whether word is in the vocabulary, ignoring case.
func (v *Vocabulary) Has(word string) bool {
	_, ok := v.Index(word)
	return ok
}

// Index returns the dense index of word, ignoring case.
func (v *Vocabulary) Index(word string) (int, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.index[strings.ToLower(word)]
	return i, ok
}

// Words returns a copy of the ordered word list.
func (v *Vocabulary) Words() []string {
	if v == nil {
		return []string{}
	}
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// Size is the number of words.
func (v *Vocabulary) Size() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

// OneHot encodes word as a vector of length Size with a single 1.
func (v *Vocabulary) OneHot(word string) ([]float64, error) {
	i, ok := v.Index(word)
	if !ok {
		return nil, &domain.UnknownWordError{Word: word}
	}
	vec := make([]float64, v.Size())
	vec[i] = 1
	return vec, nil
}
