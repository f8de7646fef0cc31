package corpus

import (
	"regexp"
	"strings"

	"wordsim/internal/domain"
)

const (
	// Window is the maximum token distance that still produces a pair.
	Window = 5
	// MinTokenLength is the shortest token kept by Tokenize.
	MinTokenLength = 3
)

var (
	sentenceSplitter = regexp.MustCompile(`[.!?]+`)
	disallowedChars  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace       = regexp.MustCompile(`\s+`)
	numeric          = regexp.MustCompile(`^\d+$`)
)

var stopWords = toSet([]string{
	"a", "an", "the", "is", "are", "was", "were", "in", "on", "at",
	"to", "for", "of", "and", "or", "but", "with", "from", "by",
})

// SplitSentences splits text on runs of terminal punctuation.
func SplitSentences(text string) []string {
	return sentenceSplitter.Split(text, -1)
}

// Tokenize lower-cases a sentence, strips everything but letters, digits,
// hyphens and whitespace, and keeps tokens longer than two characters that
// are neither stop words nor purely numeric.
func Tokenize(sentence string) []string {
	cleaned := disallowedChars.ReplaceAllString(strings.ToLower(sentence), " ")
	cleaned = strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < MinTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if numeric.MatchString(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// SentencePairs emits a pair for every two tokens at most Window apart,
// weighted by the inverse of their distance.
func SentencePairs(tokens []string) []domain.TrainingPair {
	if len(tokens) < 2 {
		return nil
	}
	var pairs []domain.TrainingPair
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens) && j <= i+Window; j++ {
			pairs = append(pairs, domain.TrainingPair{
				WordA:      tokens[i],
				WordB:      tokens[j],
				Similarity: 1.0 / float64(j-i),
			})
		}
	}
	return pairs
}

// TextPairs runs sentence splitting, tokenization and pair generation over a document.
func TextPairs(text string) []domain.TrainingPair {
	var pairs []domain.TrainingPair
	for _, sentence := range SplitSentences(text) {
		pairs = append(pairs, SentencePairs(Tokenize(sentence))...)
	}
	return pairs
}

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
