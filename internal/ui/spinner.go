package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// workDoneMsg tells the spinner that the wrapped work has returned.
type workDoneMsg struct{}

// spinnerModel shows a spinner and a label until the work finishes.
type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spinner.View() + " " + SpinnerLabelStyle.Render(m.label) + "\n"
}

// RunWithSpinner runs work while a spinner with label is drawn on out. The
// spinner is skipped when animate is false (output redirected, JSON mode).
// Interrupts are left to the caller's context; work must return when ctx ends.
func RunWithSpinner(ctx context.Context, out io.Writer, label string, animate bool, work func(ctx context.Context) error) error {
	if !animate {
		return work(ctx)
	}

	p := tea.NewProgram(newSpinnerModel(label),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		err := work(ctx)
		result <- err
		p.Send(workDoneMsg{})
	}()

	// A failed animation does not change the work's result.
	_, _ = p.Run()
	return <-result
}
