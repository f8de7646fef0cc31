package memory

import (
	"errors"
	"sort"
	"sync"

	"wordsim/internal/domain"
	"wordsim/internal/model"
)

// Storage is a simple in-memory word vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	words     []string
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.words = nil
	return nil
}

func (s *Storage) Upsert(words []string, vectors [][]float64) error {
	if len(words) != len(vectors) {
		return errors.New("words and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.words = append(s.words, words...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search ranks stored words by cosine similarity to vector, best first.
// Equal scores keep insertion order.
func (s *Storage) Search(vector []float64, topK int) ([]domain.Neighbor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("vector dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = model.Cosine(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.Neighbor, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.Neighbor{Word: s.words[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = 0
	s.vectors = nil
	s.words = nil
	return nil
}
