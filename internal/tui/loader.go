package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves a prompt or loader with ctrl+c.
var ErrCancelled = errors.New("cancelled")

type loaderDoneMsg struct {
	err error
}

type spinnerTickMsg struct{}

type loaderModel struct {
	label string
	fn    func(ctx context.Context) error
	frame int
	err   error
	done  bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.run(), tick())
}

func (m loaderModel) run() tea.Cmd {
	fn := m.fn
	return func() tea.Msg {
		return loaderDoneMsg{err: fn(context.Background())}
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loaderDoneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s %s\n", spinner, m.label)
}

// RunLoader shows a spinner with label while fn runs. It renders inline (no
// alt screen). Leaving with ctrl+c returns ErrCancelled without waiting for fn.
func RunLoader(label string, fn func(ctx context.Context) error) error {
	m := loaderModel{
		label: label,
		fn:    fn,
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return err
	}
	return result.(loaderModel).err
}
