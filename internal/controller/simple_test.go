package controller

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

func newTestUI(t *testing.T) (*SimpleUI, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	return NewSimpleUI(cmd, false), &out
}

func TestSimpleUI_ReportReflowsParagraphs(t *testing.T) {
	ui, out := newTestUI(t)

	ui.Report("A sentence that was\nwrapped in source code.\n\nA new paragraph.")

	assert.Equal(t, "A sentence that was wrapped in source code.\n\nA new paragraph.\n", out.String())
}

func TestSimpleUI_ReportKeepsIndentedLines(t *testing.T) {
	ui, out := newTestUI(t)

	ui.Report("Listing:\n    indented line\n    another one")

	// Indented lines keep their own line, only flush continuations join.
	assert.Contains(t, out.String(), "Listing:\n    indented line\n    another one\n")
}

func TestSimpleUI_StartBuildNonInteractive(t *testing.T) {
	ui, out := newTestUI(t)

	ui.StartBuild("out/soong/hiddenapi/hiddenapi-flags.csv")
	ui.FinishBuild("out/soong/hiddenapi/hiddenapi-flags.csv")

	assert.Equal(t, "Building out/soong/hiddenapi/hiddenapi-flags.csv...\n", out.String())
}

func TestSimpleUI_DisplayFlagDiffs(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayFlagDiffs(m.FlagDiffs{
		"Lart/Foo;->bar()V": {
			Signature:       "Lart/Foo;->bar()V",
			ModuleFlags:     m.FlagSet{"unsupported"},
			MonolithicFlags: m.FlagSet{"blocked"},
		},
		"Lart/Baz;->qux()V": {
			Signature:       "Lart/Baz;->qux()V",
			ModuleFlags:     m.FlagSet{"max-target-r"},
			MonolithicFlags: m.FlagSet{"blocked"},
		},
	})

	text := out.String()
	assert.Contains(t, text, "2 inconsistent hidden API flags:")
	assert.Contains(t, text, "--- bootclasspath_fragment flags")
	assert.Contains(t, text, "+++ platform_bootclasspath flags")
	assert.Contains(t, text, "-Lart/Foo;->bar()V,unsupported")
	assert.Contains(t, text, "+Lart/Foo;->bar()V,blocked")

	// Sorted signature order: Baz before Foo.
	assert.Less(t,
		bytes.Index(out.Bytes(), []byte("Lart/Baz")),
		bytes.Index(out.Bytes(), []byte("Lart/Foo")))
}

func TestSimpleUI_DisplayFlagDiffsEmpty(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayFlagDiffs(nil)

	assert.Empty(t, out.String())
}

func TestSimpleUI_DisplayFileChanges(t *testing.T) {
	ui, out := newTestUI(t)

	ui.DisplayFileChanges([]m.FileChange{
		{Path: "art/build/boot/Android.bp", Description: "\nAdd the following snippet.\n"},
		{Path: "frameworks/base/boot/hiddenapi/hiddenapi-unsupported.txt", Description: "Remove the following entries:\n    Lart/Foo;->bar()V\n"},
	})

	text := out.String()
	assert.Contains(t, text, "    art/build/boot/Android.bp\n")
	assert.Contains(t, text, "    frameworks/base/boot/hiddenapi/hiddenapi-unsupported.txt\n")
	assert.Contains(t, text, "Add the following snippet.")

	// The summary table lists every path with a one line change summary.
	// tablewriter upper-cases header and footer cells.
	assert.Contains(t, text, "PATH")
	assert.Contains(t, text, "CHANGE")
	assert.Contains(t, text, "TOTAL FILES 2")
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "first line", description: "Remove the following entries:\n    Lart/Foo;->bar()V", want: "Remove the following entries:"},
		{name: "leading blanks skipped", description: "\n\n  Add the snippet.\n", want: "Add the snippet."},
		{name: "all blank", description: "\n   \n", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.description))
		})
	}
}

func TestIsTTY_NonFileWriter(t *testing.T) {
	require.False(t, IsTTY(&bytes.Buffer{}))
}
