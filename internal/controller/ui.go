// Package controller provides the output side of the analyze-bcpf CLI:
// advisory prose, flag diffs, the planned change list and build progress.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// UI is the reporting dependency handed to the analysis pipeline, so the
// domain logic stays testable without process-wide output state.
type UI interface {
	// Report prints advisory text, reflowing adjacent lines into
	// paragraphs.
	Report(text string)

	// Reportf formats and then reports.
	Reportf(format string, args ...any)

	// StartBuild signals that a build of target started; FinishBuild must
	// be called once its output has been consumed.
	StartBuild(target string)
	FinishBuild(target string)

	// DisplayFlagDiffs renders the inconsistent flags as a unified diff of
	// the fragment's lines against the monolithic lines.
	DisplayFlagDiffs(diffs m.FlagDiffs)

	// DisplayFileChanges renders the planned edits in the order given.
	DisplayFileChanges(changes []m.FileChange)
}

// NewUI creates the UI for a command. Interactive mode adds styling and a
// progress spinner while builds run.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	return NewSimpleUI(cmd, interactive)
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
