package controller

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// reflowPattern joins lines that are not separated by a blank line and do
// not start with whitespace, so advisory text wrapped in source code reads
// as paragraphs.
var reflowPattern = regexp.MustCompile(`(.)\n(\S)`)

// SimpleUI implements UI using the cobra command's output stream.
type SimpleUI struct {
	cmd         *cobra.Command
	interactive bool

	pathStyle lipgloss.Style
	progress  *BuildProgress
}

// NewSimpleUI creates a SimpleUI. Styling and the progress spinner are
// only used when interactive is true.
func NewSimpleUI(cmd *cobra.Command, interactive bool) *SimpleUI {
	return &SimpleUI{
		cmd:         cmd,
		interactive: interactive,
		pathStyle:   lipgloss.NewStyle().Bold(true),
	}
}

// Report prints the text with adjacent lines joined into paragraphs.
func (s *SimpleUI) Report(text string) {
	s.printf("%s\n", reflowPattern.ReplaceAllString(text, "$1 $2"))
}

// Reportf formats and then reports.
func (s *SimpleUI) Reportf(format string, args ...any) {
	s.Report(fmt.Sprintf(format, args...))
}

// StartBuild shows build progress: a spinner on a terminal, a plain line
// otherwise.
func (s *SimpleUI) StartBuild(target string) {
	if !s.interactive {
		s.printf("Building %s...\n", target)
		return
	}

	s.progress = newBuildProgress(s.cmd.OutOrStdout(), target)
}

// FinishBuild stops the progress display started by StartBuild.
func (s *SimpleUI) FinishBuild(target string) {
	if s.progress == nil {
		return
	}

	s.progress.Stop()
	s.progress = nil
	s.printf("Built %s\n", target)
}

// DisplayFlagDiffs renders the inconsistent flags as one unified diff,
// module lines against monolithic lines, in sorted signature order.
func (s *SimpleUI) DisplayFlagDiffs(diffs m.FlagDiffs) {
	if len(diffs) == 0 {
		return
	}

	signatures := make([]m.Signature, 0, len(diffs))
	for signature := range diffs {
		signatures = append(signatures, signature)
	}

	sort.Slice(signatures, func(i, j int) bool {
		return signatures[i] < signatures[j]
	})

	moduleLines := make([]string, 0, len(signatures))
	monolithicLines := make([]string, 0, len(signatures))

	for _, signature := range signatures {
		entry := diffs[signature]
		moduleLines = append(moduleLines, flagsLine(signature, entry.ModuleFlags))
		monolithicLines = append(monolithicLines, flagsLine(signature, entry.MonolithicFlags))
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(strings.Join(moduleLines, "\n") + "\n"),
		B:        difflib.SplitLines(strings.Join(monolithicLines, "\n") + "\n"),
		FromFile: "bootclasspath_fragment flags",
		ToFile:   "platform_bootclasspath flags",
		Context:  3,
	})
	if err != nil {
		s.printf("failed to render flag diff: %v\n", err)
		return
	}

	s.printf("\n%d inconsistent hidden API flags:\n\n%s\n", len(diffs), diff)
}

func flagsLine(signature m.Signature, flags m.FlagSet) string {
	return strings.Join(append([]string{string(signature)}, flags...), ",")
}

// DisplayFileChanges prints the full description of every planned change
// followed by a summary table.
func (s *SimpleUI) DisplayFileChanges(changes []m.FileChange) {
	for _, change := range changes {
		path := change.Path
		if s.interactive {
			path = s.pathStyle.Render(path)
		}

		s.printf("\n    %s\n", path)
		s.Report("        " + change.Description)
	}

	s.printf("\n%s", renderChangeTable(changes))
}

func renderChangeTable(changes []m.FileChange) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Path", "Change"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, change := range changes {
		table.Append([]string{change.Path, summarize(change.Description)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total files %d", len(changes)), ""})
	table.Render()

	return buf.String()
}

// summarize reduces a change description to its first non-blank line.
func summarize(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}

	return ""
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
