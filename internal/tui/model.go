package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"morph/internal/renamer"
)

type Model struct {
	updates  <-chan renamer.ProgressUpdate
	title    string
	started  time.Time
	bar      progress.Model
	total    int
	renamed  int
	skipped  int
	errors   int
	quitting bool
}

type doneMsg struct{}

type updateMsg renamer.ProgressUpdate

func NewModel(title string, updates <-chan renamer.ProgressUpdate) Model {
	bar := progress.New(progress.WithGradient(string(ColorAccentAlt), string(ColorAccent)))
	bar.Width = 40
	return Model{updates: updates, title: title, started: time.Now(), bar: bar}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.total += msg.TotalDelta
		m.renamed += msg.RenamedDelta
		m.skipped += msg.SkippedDelta
		m.errors += msg.ErrorDelta
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.bar.Width = min(60, max(20, msg.Width-10))
		return m, nil
	default:
		return m, nil
	}
}

// Done is the number of items handled so far, whatever their outcome.
func (m Model) Done() int {
	return m.renamed + m.skipped + m.errors
}

func (m Model) ratio() float64 {
	if m.total == 0 {
		return 0
	}
	return min(1, float64(m.Done())/float64(m.total))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render(m.title),
		labelStyle.Render(fmt.Sprintf("Items: %d/%d", m.Done(), m.total)) +
			dimStyle.Render(fmt.Sprintf("  renamed:%d skipped:%d errors:%d", m.renamed, m.skipped, m.errors)),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(m.ratio()),
	}
	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan renamer.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
