package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wordsim/internal/domain"
	"wordsim/internal/service"
)

const pollInterval = 200 * time.Millisecond

// EmbeddingPort is the TUI-facing subset of the embedding service.
type EmbeddingPort interface {
	StartTraining() *service.Run
	Progress() domain.TrainingProgress
	Vocabulary() []string
	Compare(ctx context.Context, a, b string) domain.Comparison
	Neighbors(word string, k int) ([]domain.Neighbor, error)
	GenericName() string
}

type tickMsg time.Time

type trainDoneMsg struct{ err error }

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service  EmbeddingPort
	inputs   [2]textinput.Model
	focus    int
	bar      progress.Model
	viewport viewport.Model
	progress domain.TrainingProgress
	training bool
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(service EmbeddingPort) Model {
	var inputs [2]textinput.Model
	for i, ph := range []string{"first word", "second word"} {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%d> ", i+1)
		ti.Placeholder = ph
		ti.CharLimit = 64
		inputs[i] = ti
	}
	inputs[0].Focus()
	m := Model{
		service:  service,
		inputs:   inputs,
		bar:      progress.New(progress.WithDefaultGradient()),
		viewport: viewport.New(0, 0),
		progress: service.Progress(),
		status:   "ctrl+t: train  tab: switch word  enter: compare  ctrl+c: quit",
	}
	return m
}

// Init initializes the model (text input cursor blink and progress polling).
func (m Model) Init() tea.Cmd { return tea.Batch(textinput.Blink, tick()) }

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func waitForRun(run *service.Run) tea.Cmd {
	return func() tea.Msg { return trainDoneMsg{err: run.Wait()} }
}

// Update handles key, window and polling events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 4 + 2*qh + 2 // header, progress, loss, status, inputs, spacers
		m.bar.Width = max(10, msg.Width-4)
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		return m, nil
	case tickMsg:
		m.progress = m.service.Progress()
		return m, tick()
	case trainDoneMsg:
		m.training = false
		m.progress = m.service.Progress()
		if msg.err != nil {
			m.status = "Training failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Training completed. Vocabulary: %d words", len(m.service.Vocabulary()))
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+t":
			if m.training {
				m.status = "Training already in progress"
				return m, nil
			}
			m.training = true
			run := m.service.StartTraining()
			m.status = "Training started: run " + run.ID
			return m, waitForRun(run)
		case "tab", "shift+tab":
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			return m, m.inputs[m.focus].Focus()
		case "enter":
			a := strings.TrimSpace(m.inputs[0].Value())
			b := strings.TrimSpace(m.inputs[1].Value())
			if a == "" || b == "" {
				m.status = "Enter two words"
				return m, nil
			}
			m.viewport.SetContent(m.renderComparison(a, b))
			m.status = fmt.Sprintf("Compared %q and %q", a, b)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Word Similarity")
	training := m.bar.ViewAs(fraction(m.progress)) + "\n" + lossStyle.Render(renderProgress(m.progress))
	inputs := queryBoxStyle.Render(m.inputs[0].View()) + "\n" + queryBoxStyle.Render(m.inputs[1].View())
	results := resultBoxStyle.Render(m.viewport.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + training + "\n" + results + "\n" + inputs + "\n" + status
}

func (m Model) renderComparison(a, b string) string {
	cmp := m.service.Compare(context.Background(), a, b)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s / %s\n\n", cmp.WordA, cmp.WordB)
	fmt.Fprintf(&sb, "custom:  %s\n", formatScore(cmp.Custom, cmp.CustomError))
	fmt.Fprintf(&sb, "generic: %s (%s)\n", formatScore(cmp.Generic, cmp.GenericError), m.service.GenericName())
	if cmp.Difference != nil {
		winner := "generic"
		if cmp.CustomIsHigher {
			winner = "custom"
		}
		fmt.Fprintf(&sb, "diff:    %+.4f, %s is higher\n", *cmp.Difference, winner)
	}
	if res, err := m.service.Neighbors(a, 5); err == nil && len(res) > 0 {
		fmt.Fprintf(&sb, "\nnearest to %s:\n", a)
		for _, n := range res {
			fmt.Fprintf(&sb, "  %-16s %s\n", n.Word, highlightStyle.Render(fmt.Sprintf("%.3f", n.Score)))
		}
	}
	return sb.String()
}

func formatScore(v *float64, errMsg string) string {
	if v == nil {
		return errorStyle.Render(errMsg)
	}
	return highlightStyle.Render(fmt.Sprintf("%.4f", *v))
}

func fraction(p domain.TrainingProgress) float64 {
	if p.TotalEpochs == 0 {
		return 0
	}
	return float64(p.CurrentEpoch) / float64(p.TotalEpochs)
}

func renderProgress(p domain.TrainingProgress) string {
	if p.CurrentEpoch == 0 {
		return p.Status
	}
	return fmt.Sprintf("%s  epoch %d/%d  loss %.4f", p.Status, p.CurrentEpoch, p.TotalEpochs, p.CurrentLoss)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	lossStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
