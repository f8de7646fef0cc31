package model

import "wordsim/internal/domain"

// Model is a trained, read-only embedding model. All methods are safe for
// concurrent use and never mutate the weights.
type Model struct {
	cfg   domain.ModelConfig
	vocab *Vocabulary
	net   *Network
}

// Config returns the hyperparameters the model was trained with.
func (m *Model) Config() domain.ModelConfig { return m.cfg }

// Vocabulary returns the model vocabulary.
func (m *Model) Vocabulary() *Vocabulary { return m.vocab }

// Embedding returns the raw embedding of word.
func (m *Model) Embedding(word string) ([]float64, error) {
	x, err := m.vocab.OneHot(word)
	if err != nil {
		return nil, err
	}
	return m.net.Forward(x)
}

// Similarity is the cosine similarity of the embeddings of a and b.
func (m *Model) Similarity(a, b string) (float64, error) {
	ea, err := m.Embedding(a)
	if err != nil {
		return 0, err
	}
	eb, err := m.Embedding(b)
	if err != nil {
		return 0, err
	}
	return Cosine(ea, eb), nil
}
