package domain

import "context"

// TrainingPair is a weighted observation that two words are related.
// The pair is unordered; Similarity is a soft target in [0, 1].
type TrainingPair struct {
	WordA      string  `json:"word1" yaml:"word1"`
	WordB      string  `json:"word2" yaml:"word2"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// TrainingProgress describes the state of the latest training run.
// LossHistory always has exactly CurrentEpoch entries.
type TrainingProgress struct {
	CurrentEpoch int       `json:"currentEpoch"`
	TotalEpochs  int       `json:"totalEpochs"`
	CurrentLoss  float64   `json:"currentLoss"`
	IsTraining   bool      `json:"isTraining"`
	Status       string    `json:"status"`
	LossHistory  []float64 `json:"lossHistory"`
}

// ModelConfig holds the hyperparameters of one trained model instance.
type ModelConfig struct {
	EmbedDim     int     `json:"embedDim" yaml:"dimension"`
	Margin       float64 `json:"margin" yaml:"margin"`
	Epochs       int     `json:"epochs" yaml:"epochs"`
	LearningRate float64 `json:"learningRate" yaml:"learning_rate"`
}

// ModelInfo is the externally visible description of the configured model.
type ModelInfo struct {
	ModelConfig     `yaml:",inline"`
	DocumentsFolder string `json:"documentsFolder" yaml:"documents_folder"`
	VocabularySize  int    `json:"vocabularySize" yaml:"vocabulary_size"`
	IsTrained       bool   `json:"isTrained" yaml:"is_trained"`
}

// WordCount is a word with the number of pair positions it occupies.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// TrainingStats aggregates descriptive statistics over a pair set.
type TrainingStats struct {
	TotalPairs    int         `json:"totalPairs" yaml:"total_pairs"`
	UniqueWords   int         `json:"uniqueWords" yaml:"unique_words"`
	AvgSimilarity float64     `json:"avgSimilarity" yaml:"avg_similarity"`
	MinSimilarity float64     `json:"minSimilarity" yaml:"min_similarity"`
	MaxSimilarity float64     `json:"maxSimilarity" yaml:"max_similarity"`
	TopWords      []WordCount `json:"topWords" yaml:"top_words"`
}

// Neighbor is a vocabulary word ranked by cosine similarity to a query word.
type Neighbor struct {
	Word  string  `json:"word"`
	Score float64 `json:"score"`
}

// Comparison holds custom and generic similarity for the same word pair.
// A side that failed has a nil value and a non-empty error string.
type Comparison struct {
	WordA          string   `json:"word1"`
	WordB          string   `json:"word2"`
	Custom         *float64 `json:"customSimilarity"`
	CustomError    string   `json:"customError,omitempty"`
	Generic        *float64 `json:"genericSimilarity"`
	GenericError   string   `json:"genericError,omitempty"`
	Difference     *float64 `json:"difference,omitempty"`
	CustomIsHigher bool     `json:"customIsHigher"`
}

// PairSource produces training pairs from a corpus location.
type PairSource interface {
	Pairs(location string) ([]TrainingPair, error)
}

// EmbeddingProvider maps free text to a dense vector. It is the generic
// embedding source the trained model is compared against.
type EmbeddingProvider interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float64, error)
}

// WordStore persists word vectors and supports similarity search.
type WordStore interface {
	Init(dimension int) error
	Upsert(words []string, vectors [][]float64) error
	Search(vector []float64, topK int) ([]Neighbor, error)
	Clear() error
}
