package model

import (
	"sync"

	"wordsim/internal/domain"
)

// Progress statuses.
const (
	StatusNotInitialized = "Model not initialized"
	StatusNotStarted     = "Not started"
	StatusProcessing     = "Processing documents..."
	StatusBuildingVocab  = "Building vocabulary..."
	StatusInitializing   = "Initializing model..."
	StatusTraining       = "Training..."
	StatusIndexing       = "Indexing..."
	StatusCompleted      = "Training completed"
	StatusFailedPrefix   = "Training failed: "
)

// Progress is the concurrency-safe progress record of one training run.
// Only the goroutine running the training writes to it.
type Progress struct {
	mu       sync.RWMutex
	p        domain.TrainingProgress
	finished bool
}

// NewProgress creates a record in the given status.
func NewProgress(status string, totalEpochs int) *Progress {
	return &Progress{p: domain.TrainingProgress{Status: status, TotalEpochs: totalEpochs, LossHistory: []float64{}}}
}

// Snapshot returns a copy that is safe to hold on to.
func (pr *Progress) Snapshot() domain.TrainingProgress {
	if pr == nil {
		return domain.TrainingProgress{Status: StatusNotInitialized, LossHistory: []float64{}}
	}
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	out := pr.p
	out.LossHistory = append(make([]float64, 0, len(pr.p.LossHistory)), pr.p.LossHistory...)
	return out
}

func (pr *Progress) setStatus(status string, training bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.p.Status = status
	pr.p.IsTraining = training
}

func (pr *Progress) begin(totalEpochs int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.p.Status = StatusTraining
	pr.p.IsTraining = true
	pr.p.TotalEpochs = totalEpochs
	pr.p.CurrentEpoch = 0
	pr.p.CurrentLoss = 0
	pr.p.LossHistory = []float64{}
}

// recordEpoch appends the loss of the epoch that just finished.
func (pr *Progress) recordEpoch(loss float64) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.p.LossHistory = append(pr.p.LossHistory, loss)
	pr.p.CurrentEpoch = len(pr.p.LossHistory)
	pr.p.CurrentLoss = loss
}

// Advance moves an in-flight run to the next non-terminal status.
func (pr *Progress) Advance(status string) {
	pr.setStatus(status, true)
}

// Complete marks the run as finished successfully.
func (pr *Progress) Complete() {
	pr.finish(StatusCompleted)
}

// Fail marks the run as finished with an error.
func (pr *Progress) Fail(err error) {
	pr.finish(StatusFailedPrefix + err.Error())
}

// finish records the outcome once. A run that already finished keeps its status.
func (pr *Progress) finish(status string) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.finished {
		return
	}
	pr.finished = true
	pr.p.Status = status
	pr.p.IsTraining = false
}
