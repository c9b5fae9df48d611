package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned by Await when the user aborts the task.
var ErrInterrupted = errors.New("interrupted")

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	abortStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type taskDoneMsg struct {
	err error
}

type awaitModel struct {
	spinner  spinner.Model
	label    string
	task     func(context.Context) error
	ctx      context.Context
	cancel   context.CancelFunc
	aborting bool
	done     bool
	err      error
}

func (m awaitModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return taskDoneMsg{err: m.task(m.ctx)}
		},
	)
}

func (m awaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			// Cancel the context and let the task unwind; the model
			// quits when the done message arrives.
			m.aborting = true
			m.cancel()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		if m.aborting || errors.Is(msg.err, context.Canceled) {
			m.err = ErrInterrupted
		}
		return m, tea.Quit

	default:
		return m, nil
	}
}

func (m awaitModel) View() string {
	if m.done {
		return ""
	}
	if m.aborting {
		return fmt.Sprintf("%s %s", m.spinner.View(), abortStyle.Render("Aborting "+m.label+"..."))
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), labelStyle.Render(m.label+"..."))
}

// Await runs a blocking task behind a spinner. Ctrl-C or Esc cancels the
// context handed to the task and reports ErrInterrupted once it returns.
func Await(ctx context.Context, label string, task func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = spinnerStyle

	m := awaitModel{
		spinner: s,
		label:   label,
		task:    task,
		ctx:     ctx,
		cancel:  cancel,
	}

	// Use stderr to avoid polluting stdout
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(awaitModel)
	if !ok {
		return fmt.Errorf("internal error: invalid model type")
	}
	return fm.err
}
