// Package service owns the trained model and orchestrates training runs and
// queries against it.
package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/atomic"

	"wordsim/internal/corpus"
	"wordsim/internal/domain"
	"wordsim/internal/embedding"
	"wordsim/internal/logging"
	"wordsim/internal/model"
	"wordsim/internal/stats"
	"wordsim/internal/vectorstore/memory"
)

// DefaultNeighbors is the neighbor count used when a caller passes k <= 0.
const DefaultNeighbors = 5

// StoreFactory creates the neighbor index for one training run.
type StoreFactory func(runID string) (domain.WordStore, error)

// MemoryStores is a StoreFactory returning in-memory stores.
func MemoryStores(string) (domain.WordStore, error) { return memory.NewStorage(), nil }

// Options configures an EmbeddingService.
type Options struct {
	Model           domain.ModelConfig
	Seed            int64
	DocumentsFolder string
	Source          domain.PairSource
	Generic         domain.EmbeddingProvider
	NewStore        StoreFactory
	Logger          logging.Logger
}

// snapshot is everything a query needs, published as one unit.
type snapshot struct {
	runID string
	model *model.Model
	index domain.WordStore
}

// EmbeddingService is the state container for the custom embedding model.
//
// Training runs are serialized: a second Train call blocks until the running
// one finishes and then replaces its result. Readers always see either the
// previous or the new model, never a partially built one.
type EmbeddingService struct {
	opts Options
	log  logging.Logger

	trainMu  sync.Mutex
	current  *atomic.Pointer[snapshot]
	pairs    *atomic.Pointer[[]domain.TrainingPair]
	progress *atomic.Pointer[model.Progress]
}

// New creates an untrained service.
func New(opts Options) *EmbeddingService {
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Source == nil {
		opts.Source = corpus.NewIngestor(opts.Logger.WithPrefix("corpus"))
	}
	if opts.NewStore == nil {
		opts.NewStore = MemoryStores
	}
	return &EmbeddingService{
		opts:     opts,
		log:      opts.Logger,
		current:  atomic.NewPointer[snapshot](nil),
		pairs:    atomic.NewPointer[[]domain.TrainingPair](nil),
		progress: atomic.NewPointer[model.Progress](nil),
	}
}

// Train reads the corpus, trains a new model and publishes it. It blocks
// while another run is in progress. A corpus that cannot be read is replaced
// by the built-in fallback pairs.
func (s *EmbeddingService) Train() error {
	return s.train(uuid.NewString())
}

// Run is a handle to a training run started in the background.
type Run struct {
	ID   string
	done chan struct{}
	err  error
}

// Done is closed once the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run has finished and returns its error.
func (r *Run) Wait() error {
	<-r.done
	return r.err
}

// Err returns the run's error. It is only meaningful after Done is closed.
func (r *Run) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// StartTraining runs Train in the background. Failures are logged and
// recorded in the progress status; the caller may also inspect the handle.
func (s *EmbeddingService) StartTraining() *Run {
	run := &Run{ID: uuid.NewString(), done: make(chan struct{})}
	go func() {
		defer close(run.done)
		if run.err = s.train(run.ID); run.err != nil {
			s.log.Error("training failed", logging.Fields{"run": run.ID, "error": run.err})
		}
	}()
	return run
}

func (s *EmbeddingService) train(runID string) error {
	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	log := s.log.WithPrefix("train " + runID[:8])
	progress := model.NewProgress(model.StatusNotStarted, s.opts.Model.Epochs)
	progress.Advance(model.StatusProcessing)
	s.progress.Store(progress)

	if s.IsTrained() {
		log.Info("model already trained, creating new instance", nil)
	}
	log.Info("processing documents", logging.Fields{"folder": s.opts.DocumentsFolder})
	pairs, err := s.opts.Source.Pairs(s.opts.DocumentsFolder)
	if err != nil {
		log.Warn("error processing documents, using sample training pairs instead", logging.Fields{"error": err})
		pairs = corpus.FallbackPairs()
	}
	if len(pairs) == 0 {
		progress.Fail(domain.ErrNoTrainingData)
		return domain.ErrNoTrainingData
	}
	s.pairs.Store(&pairs)

	m, err := model.NewTrainer(s.opts.Model, s.opts.Seed, log, progress).DeferCompletion().Train(pairs)
	if err != nil {
		progress.Fail(err)
		return errors.Wrap(err, "train model")
	}
	index, err := s.buildIndex(runID, m)
	if err != nil {
		progress.Fail(err)
		return errors.Wrap(err, "build neighbor index")
	}

	old := s.current.Swap(&snapshot{runID: runID, model: m, index: index})
	progress.Complete()
	if old != nil {
		if err := old.index.Clear(); err != nil {
			log.Warn("failed to release previous neighbor index", logging.Fields{"run": old.runID, "error": err})
		}
	}
	log.Info("model training completed successfully", logging.Fields{"vocabulary": m.Vocabulary().Size()})
	return nil
}

// buildIndex creates and fills the neighbor index of run. A partially built
// index is released on failure.
func (s *EmbeddingService) buildIndex(runID string, m *model.Model) (store domain.WordStore, err error) {
	store, err = s.opts.NewStore(runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if cerr := store.Clear(); cerr != nil {
				s.log.Warn("failed to release partial neighbor index", logging.Fields{"run": runID, "error": cerr})
			}
			store = nil
		}
	}()
	words := m.Vocabulary().Words()
	vectors := make([][]float64, len(words))
	for i, w := range words {
		if vectors[i], err = m.Embedding(w); err != nil {
			return store, err
		}
	}
	if err = store.Init(m.Config().EmbedDim); err != nil {
		return store, err
	}
	if err = store.Upsert(words, vectors); err != nil {
		return store, err
	}
	return store, nil
}

// Progress returns the progress of the latest training run.
func (s *EmbeddingService) Progress() domain.TrainingProgress {
	return s.progress.Load().Snapshot()
}

// IsTrained reports whether a trained model has been published.
func (s *EmbeddingService) IsTrained() bool {
	return s.current.Load() != nil
}

// RunID returns the id of the run that produced the published model, or "".
func (s *EmbeddingService) RunID() string {
	if snap := s.current.Load(); snap != nil {
		return snap.runID
	}
	return ""
}

// Vocabulary returns the words of the published model, or an empty list.
func (s *EmbeddingService) Vocabulary() []string {
	snap := s.current.Load()
	if snap == nil {
		return []string{}
	}
	return snap.model.Vocabulary().Words()
}

// Similarity is the cosine similarity of two words under the custom model.
func (s *EmbeddingService) Similarity(a, b string) (float64, error) {
	snap, err := s.trained(a, b)
	if err != nil {
		return 0, err
	}
	return snap.model.Similarity(a, b)
}

// Embedding returns the raw embedding of word and its dimension.
func (s *EmbeddingService) Embedding(word string) ([]float64, int, error) {
	snap, err := s.trained(word)
	if err != nil {
		return nil, 0, err
	}
	v, err := snap.model.Embedding(word)
	if err != nil {
		return nil, 0, err
	}
	return v, len(v), nil
}

// Neighbors returns the k vocabulary words closest to word, excluding word itself.
func (s *EmbeddingService) Neighbors(word string, k int) ([]domain.Neighbor, error) {
	if k <= 0 {
		k = DefaultNeighbors
	}
	for {
		snap, err := s.trained(word)
		if err != nil {
			return nil, err
		}
		v, err := snap.model.Embedding(word)
		if err != nil {
			return nil, err
		}
		res, err := snap.index.Search(v, k+1)
		if err != nil {
			// The index may have been released by a newer run; retry against it.
			if s.current.Load() != snap {
				continue
			}
			return nil, errors.Wrap(err, "search neighbor index")
		}
		self := strings.ToLower(word)
		res = lo.Filter(res, func(n domain.Neighbor, _ int) bool { return n.Word != self })
		if len(res) > k {
			res = res[:k]
		}
		return res, nil
	}
}

// trained returns the published snapshot after checking every word is known.
func (s *EmbeddingService) trained(words ...string) (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrNotTrained
	}
	for _, w := range words {
		if !snap.model.Vocabulary().Has(w) {
			return nil, &domain.UnknownWordError{Word: w}
		}
	}
	return snap, nil
}

// TrainingStats aggregates the pairs of the latest run.
func (s *EmbeddingService) TrainingStats() (domain.TrainingStats, error) {
	pairs := s.pairs.Load()
	if pairs == nil {
		return domain.TrainingStats{}, domain.ErrStatsUnavailable
	}
	return stats.Compute(*pairs)
}

// ModelConfig describes the configured model and the published vocabulary.
func (s *EmbeddingService) ModelConfig() domain.ModelInfo {
	snap := s.current.Load()
	info := domain.ModelInfo{ModelConfig: s.opts.Model, DocumentsFolder: s.opts.DocumentsFolder}
	if snap != nil {
		info.VocabularySize = snap.model.Vocabulary().Size()
		info.IsTrained = true
	}
	return info
}

// GenericName is the name of the generic provider, or "" if none is configured.
func (s *EmbeddingService) GenericName() string {
	if s.opts.Generic == nil {
		return ""
	}
	return s.opts.Generic.Name()
}

// GenericSimilarity is the cosine similarity of two texts under the generic provider.
func (s *EmbeddingService) GenericSimilarity(ctx context.Context, a, b string) (float64, error) {
	if s.opts.Generic == nil {
		return 0, errors.New("no generic embedding provider configured")
	}
	return embedding.Similarity(ctx, s.opts.Generic, a, b)
}

// Compare computes custom and generic similarity side by side. Failures of
// either side are reported in the result rather than returned.
func (s *EmbeddingService) Compare(ctx context.Context, a, b string) domain.Comparison {
	out := domain.Comparison{WordA: a, WordB: b}
	if v, err := s.Similarity(a, b); err != nil {
		out.CustomError = err.Error()
	} else {
		out.Custom = &v
	}
	if v, err := s.GenericSimilarity(ctx, a, b); err != nil {
		out.GenericError = err.Error()
	} else {
		out.Generic = &v
	}
	if out.Custom != nil && out.Generic != nil {
		diff := *out.Custom - *out.Generic
		out.Difference = &diff
		out.CustomIsHigher = diff > 0
	}
	return out
}
