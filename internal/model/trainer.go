// Package model implements the Siamese word embedding network, its
// contrastive training loop and inference on the trained weights.
package model

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"wordsim/internal/domain"
	"wordsim/internal/logging"
)

const logEvery = 50

// Trainer trains one model instance. A Trainer is single-use.
type Trainer struct {
	cfg      domain.ModelConfig
	seed     int64
	log      logging.Logger
	progress *Progress

	deferCompletion bool
}

// NewTrainer creates a Trainer. progress may be nil.
func NewTrainer(cfg domain.ModelConfig, seed int64, log logging.Logger, progress *Progress) *Trainer {
	if log == nil {
		log = logging.Nop{}
	}
	if progress == nil {
		progress = NewProgress(StatusNotStarted, cfg.Epochs)
	}
	return &Trainer{cfg: cfg, seed: seed, log: log, progress: progress}
}

// DeferCompletion makes Train leave the run in StatusIndexing when the epochs
// end. The caller then finishes the run with Progress().Complete or Fail.
func (t *Trainer) DeferCompletion() *Trainer {
	t.deferCompletion = true
	return t
}

// Progress returns the live progress record of this trainer.
func (t *Trainer) Progress() *Progress { return t.progress }

// Train builds a vocabulary over pairs, trains a fresh network with online
// updates, one pair at a time in the given order, and returns the frozen model.
// Pairs that fail are logged and skipped.
func (t *Trainer) Train(pairs []domain.TrainingPair) (*Model, error) {
	t.log.Info("starting training", logging.Fields{"pairs": len(pairs), "epochs": t.cfg.Epochs})

	t.progress.setStatus(StatusBuildingVocab, true)
	vocab := NewVocabulary(pairs)
	if vocab.Size() == 0 {
		t.progress.Fail(domain.ErrNoTrainingData)
		return nil, domain.ErrNoTrainingData
	}
	t.log.Info("vocabulary built", logging.Fields{"size": vocab.Size()})

	t.progress.setStatus(StatusInitializing, true)
	net, err := NewNetwork(vocab.Size(), t.cfg.EmbedDim, rand.New(rand.NewSource(t.seed)))
	if err != nil {
		t.progress.Fail(err)
		return nil, errors.Wrap(err, "initialize network")
	}
	opt := newAdam(t.cfg.LearningRate, net.params())
	grads := newGradients(net)

	t.progress.begin(t.cfg.Epochs)
	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		total := 0.0
		for _, p := range pairs {
			loss, err := t.trainPair(net, vocab, opt, grads, p)
			if err != nil {
				t.log.Warn("error processing pair", logging.Fields{"pair": pairString(p), "error": err})
				continue
			}
			total += loss
		}
		t.progress.recordEpoch(total)
		if epoch%logEvery == 0 || epoch == t.cfg.Epochs-1 {
			t.log.Info("epoch finished", logging.Fields{"epoch": epoch + 1, "of": t.cfg.Epochs, "loss": fmt.Sprintf("%.4f", total)})
		}
	}

	t.log.Info("training completed", nil)
	if t.deferCompletion {
		t.progress.Advance(StatusIndexing)
	} else {
		t.progress.Complete()
	}
	return &Model{cfg: t.cfg, vocab: vocab, net: net}, nil
}

// trainPair runs forward, loss, backward and one optimizer step for a single pair.
func (t *Trainer) trainPair(net *Network, vocab *Vocabulary, opt *adam, g *gradients, p domain.TrainingPair) (loss float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
		g.reset()
	}()

	ia, ok := vocab.Index(p.WordA)
	if !ok {
		return 0, &domain.UnknownWordError{Word: p.WordA}
	}
	ib, ok := vocab.Index(p.WordB)
	if !ok {
		return 0, &domain.UnknownWordError{Word: p.WordB}
	}

	actA := net.forwardIndex(ia)
	actB := net.forwardIndex(ib)
	res, err := ContrastiveLoss(p.Similarity, actA.out.RawVector().Data, actB.out.RawVector().Data, t.cfg.Margin)
	if err != nil {
		return 0, err
	}
	net.backward(actA, res.GradA, g)
	net.backward(actB, res.GradB, g)
	opt.update(net.params(), g.params())
	return res.Loss, nil
}

func pairString(p domain.TrainingPair) string {
	return fmt.Sprintf("{%s, %s, %.2f}", p.WordA, p.WordB, p.Similarity)
}
