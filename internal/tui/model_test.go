package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordsim/internal/domain"
	"wordsim/internal/service"
)

type fakePort struct {
	started  int
	progress domain.TrainingProgress
}

func (f *fakePort) StartTraining() *service.Run {
	f.started++
	return &service.Run{ID: "run-1"}
}

func (f *fakePort) Progress() domain.TrainingProgress { return f.progress }
func (f *fakePort) Vocabulary() []string              { return []string{"aws", "s3"} }
func (f *fakePort) GenericName() string               { return "charhash" }

func (f *fakePort) Compare(_ context.Context, a, b string) domain.Comparison {
	custom, generic, diff := 0.9, 0.4, 0.5
	return domain.Comparison{WordA: a, WordB: b, Custom: &custom, Generic: &generic, Difference: &diff, CustomIsHigher: true}
}

func (f *fakePort) Neighbors(word string, _ int) ([]domain.Neighbor, error) {
	return []domain.Neighbor{{Word: "s3", Score: 0.8}}, nil
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func typeText(t *testing.T, m Model, s string) Model {
	for _, r := range s {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestViewBeforeResize(t *testing.T) {
	m := New(&fakePort{})
	assert.Equal(t, "Loading...", m.View())
}

func TestCompareFlow(t *testing.T) {
	m := New(&fakePort{})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Enter two words", m.status)

	m = typeText(t, m, "aws")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	m = typeText(t, m, "s3")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, `Compared "aws" and "s3"`, m.status)
	view := m.View()
	assert.Contains(t, view, "custom")
	assert.Contains(t, view, "nearest to aws")
}

func TestTrainingKeys(t *testing.T) {
	port := &fakePort{}
	m := New(port)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.training)
	assert.Equal(t, 1, port.started)
	assert.True(t, strings.HasSuffix(m.status, "run-1"))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, 1, port.started)
	assert.Equal(t, "Training already in progress", m.status)

	port.progress = domain.TrainingProgress{Status: "Training...", CurrentEpoch: 3, TotalEpochs: 10, CurrentLoss: 1.5}
	m = update(t, m, tickMsg{})
	assert.InDelta(t, 0.3, fraction(m.progress), 1e-12)
	assert.Contains(t, renderProgress(m.progress), "epoch 3/10")

	m = update(t, m, trainDoneMsg{err: errors.New("boom")})
	assert.False(t, m.training)
	assert.Equal(t, "Training failed: boom", m.status)

	m = update(t, m, trainDoneMsg{})
	assert.Equal(t, "Training completed. Vocabulary: 2 words", m.status)
}

func TestFractionWithoutEpochs(t *testing.T) {
	assert.Equal(t, 0.0, fraction(domain.TrainingProgress{}))
	assert.Equal(t, "Not started", renderProgress(domain.TrainingProgress{Status: "Not started"}))
}
