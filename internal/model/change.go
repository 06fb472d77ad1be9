package model

import (
	"fmt"
	"sort"
	"strings"
)

// FileChange describes one edit a human needs to make to a file. The tool
// never applies changes itself, it only plans and describes them.
type FileChange struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description"`
}

// SortFileChanges orders changes by path, lexicographically. The sort is
// stable so changes for the same path keep their insertion order. Rendered
// reports rely on this ordering being deterministic.
func SortFileChanges(changes []FileChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
}

// PropertyChange describes one list-valued property to merge into the
// bootclasspath_fragment's hidden_api block in its Android.bp file.
type PropertyChange struct {
	Name    string   `yaml:"name"`
	Values  []string `yaml:"values"`
	Comment string   `yaml:"comment,omitempty"`
}

// commentWidth is the column at which property comments are wrapped,
// before indentation is applied.
const commentWidth = 77

// Snippet renders the property as an Android.bp list literal, preceded by
// its comment (if any), at the given indent.
func (p PropertyChange) Snippet(indent string) string {
	var b strings.Builder

	b.WriteString("\n")

	for _, line := range formatCommentLines(p.Comment, indent) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s%s: [", indent, p.Name)

	if len(p.Values) > 0 {
		b.WriteString("\n")

		for _, value := range p.Values {
			fmt.Fprintf(&b, "%s    %q,\n", indent, value)
		}

		b.WriteString(indent)
	}

	b.WriteString("],\n")

	return b.String()
}

// formatCommentLines wraps the comment text into "// " lines at the given
// indent. An empty comment produces no lines.
func formatCommentLines(text, indent string) []string {
	words := strings.Fields(strings.Trim(text, "\n"))
	if len(words) == 0 {
		return nil
	}

	width := commentWidth - len(indent)

	var lines []string

	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, fmt.Sprintf("%s// %s", indent, current))
			current = word

			continue
		}

		current += " " + word
	}

	lines = append(lines, fmt.Sprintf("%s// %s", indent, current))

	return lines
}
