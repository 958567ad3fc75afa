package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type keyPromptModel struct {
	input     textinput.Model
	provider  string
	key       string
	warning   string
	cancelled bool
}

func newKeyPromptModel(provider string) keyPromptModel {
	ti := textinput.New()
	ti.Placeholder = "paste your API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = "> "
	ti.Focus()

	return keyPromptModel{input: ti, provider: provider}
}

func (m keyPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m keyPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			key := strings.TrimSpace(m.input.Value())
			if key == "" {
				m.warning = "An API key is required to analyze a CV."
				return m, nil
			}
			m.key = key
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyPromptModel) View() string {
	if m.key != "" || m.cancelled {
		return ""
	}
	s := titleStyle.Render("CV Nexus: enter your " + m.provider + " API key")
	s += "\n  " + m.input.View() + "\n"
	if m.warning != "" {
		s += "\n  " + errorStyle.Render(m.warning) + "\n"
	}
	s += hintStyle.Render("The key is stored on this machine only and sent solely to the model provider.\nenter save  esc cancel")
	return s + "\n"
}

// RunKeyPrompt asks for an API key with masked input. The returned key is
// trimmed and never empty; ErrCancelled is returned if the user gives up.
func RunKeyPrompt(provider string) (string, error) {
	p := tea.NewProgram(newKeyPromptModel(provider))
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	final := result.(keyPromptModel)
	if final.cancelled {
		return "", ErrCancelled
	}
	return final.key, nil
}
