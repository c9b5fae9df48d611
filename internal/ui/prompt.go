package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

// PromptText asks for a required plain-text value, such as an access key id.
func PromptText(label string) (string, error) {
	return prompt(label, false)
}

// PromptSecret asks for a required value with the input masked, such as a
// secret key.
func PromptSecret(label string) (string, error) {
	return prompt(label, true)
}

func prompt(label string, secret bool) (string, error) {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 48

	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}

	m := promptModel{
		input: ti,
		label: label,
	}

	// Use stderr to avoid polluting stdout
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	fm, ok := finalModel.(promptModel)
	if !ok || !fm.submitted {
		return "", ErrInterrupted
	}
	return fm.input.Value(), nil
}

type promptModel struct {
	input     textinput.Model
	label     string
	warn      bool
	submitted bool
	cancelled bool
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			// Credentials are never optional; an empty submit keeps
			// the prompt open with a warning instead of accepting.
			if m.input.Value() == "" {
				m.warn = true
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != "" {
		m.warn = false
	}
	return m, cmd
}

func (m promptModel) View() string {
	if m.submitted {
		return ""
	}
	if m.cancelled {
		return quitTextStyle.Render("Cancelled.")
	}
	view := fmt.Sprintf("\n%s\n\n%s\n", titleStyle.Render(m.label), m.input.View())
	if m.warn {
		view += warnStyle.Render("  A value is required.") + "\n"
	}
	return view + "\n"
}
