// Package watch is the interactive live view: a bubbletea program that
// repaints the results table as matrix updates arrive and exits when the
// run completes.
package watch

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/tmx/internal/matrix"
	"github.com/dkoosis/tmx/internal/render"
)

type snapshotMsg []matrix.Entry
type doneMsg struct{}
type tickMsg struct{}

// Model is the bubbletea model for watch mode.
type Model struct {
	table   *render.Table
	updates <-chan []matrix.Entry
	spin    spinner.Model
	entries []matrix.Entry
	done    bool
}

// NewModel creates the watch model. The updates channel carries matrix
// snapshots; closing it signals completion.
func NewModel(table *render.Table, updates <-chan []matrix.Entry) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return Model{table: table, updates: updates, spin: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listen(), m.spin.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/4, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-m.updates
		if !ok {
			return doneMsg{}
		}
		return snapshotMsg(snapshot)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case snapshotMsg:
		m.entries = msg
		return m, m.listen()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tickMsg:
		return m, tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	out := m.table.Render(m.entries)
	if m.done {
		return out
	}
	return out + m.spin.View() + " running\n"
}

// Run drives the watch program until the updates channel closes.
func Run(ctx context.Context, table *render.Table, updates <-chan []matrix.Entry) error {
	program := tea.NewProgram(NewModel(table, updates), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
