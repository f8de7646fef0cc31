package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotTrained is returned by inference operations before a model has been trained.
	ErrNotTrained = errors.New("model not trained yet")
	// ErrNoTrainingData is returned when training is attempted with no pairs or an empty vocabulary.
	ErrNoTrainingData = errors.New("no training pairs generated")
	// ErrCorpus marks failures to read the corpus directory.
	ErrCorpus = errors.New("corpus unavailable")
	// ErrStatsUnavailable is returned when statistics are requested before any pairs were recorded.
	ErrStatsUnavailable = errors.New("no training data available")
)

// UnknownWordError reports a word that is not part of the model vocabulary.
type UnknownWordError struct {
	Word string
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("word not in vocabulary: %s", e.Word)
}

// IsPrecondition reports whether err means the operation needs a trained model or training data.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNotTrained) || errors.Is(err, ErrNoTrainingData)
}

// IsInvalidArgument reports whether err was caused by an out-of-vocabulary word.
func IsInvalidArgument(err error) bool {
	var uw *UnknownWordError
	return errors.As(err, &uw)
}
