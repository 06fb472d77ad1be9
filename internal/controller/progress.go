package controller

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// finishMsg tells the progress program to quit.
type finishMsg struct{}

// progressModel is the Bubble Tea model showing a spinner while a build
// target runs. Builds can take many minutes so the spinner is the only
// sign of life the user gets.
type progressModel struct {
	spinner spinner.Model
	target  string
	done    bool
}

func newProgressModel(target string) progressModel {
	return progressModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		target:  target,
	}
}

func (p progressModel) Init() tea.Cmd {
	return p.spinner.Tick
}

func (p progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case finishMsg:
		p.done = true
		return p, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)

		return p, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return p, tea.Quit
		}
	}

	return p, nil
}

func (p progressModel) View() string {
	if p.done {
		return ""
	}

	return fmt.Sprintf("%s Building %s...", p.spinner.View(), p.target)
}

// BuildProgress runs the spinner program in the background until Stop is
// called.
type BuildProgress struct {
	program *tea.Program
	group   errgroup.Group
}

func newBuildProgress(out io.Writer, target string) *BuildProgress {
	program := tea.NewProgram(
		newProgressModel(target),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)

	progress := &BuildProgress{program: program}
	progress.group.Go(func() error {
		_, err := program.Run()
		return err
	})

	return progress
}

// Stop quits the spinner program and waits for it to release the
// terminal.
func (b *BuildProgress) Stop() {
	b.program.Send(finishMsg{})
	_ = b.group.Wait()
}
