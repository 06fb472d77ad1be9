package domain

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// BootHiddenAPIDir is the top-relative directory holding the legacy,
// hand-maintained hidden API flag override files.
const BootHiddenAPIDir = "frameworks/base/boot/hiddenapi"

const (
	overrideFilePrefix = "hiddenapi-"
	overrideFileSuffix = ".txt"
)

// legacyBasenames maps override files whose historical names predate the
// current naming scheme onto the names a fragment-owned copy should use.
var legacyBasenames = map[string]string{
	"hiddenapi-max-target-o.txt":        "hiddenapi-max-target-o-low-priority.txt",
	"hiddenapi-max-target-r-loprio.txt": "hiddenapi-max-target-r-low-priority.txt",
}

// OverrideScanner partitions the entries of the legacy override files into
// those provided by the fragment, which must move into fragment-owned
// files, and those that stay platform-owned.
type OverrideScanner struct {
	fs adapter.OutputFS

	// topDir is the absolute top of the source tree; planned file changes
	// are reported relative to it.
	topDir string
}

// NewOverrideScanner constructs an OverrideScanner.
func NewOverrideScanner(fs adapter.OutputFS, topDir string) *OverrideScanner {
	return &OverrideScanner{fs: fs, topDir: topDir}
}

// Scan checks every override file under frameworks/base/boot/hiddenapi for
// entries provided by the fragment rooted at the top-relative bcpfDir, and
// appends the resulting file and property changes to result. Files are
// processed in sorted basename order so reports are deterministic.
func (s *OverrideScanner) Scan(bcpfDir string, catalog *SignatureCatalog, result *m.Result) error {
	hiddenAPIDir := path.Join(s.topDir, BootHiddenAPIDir)

	basenames, err := s.fs.ListDir(hiddenAPIDir)
	if err != nil {
		return fmt.Errorf("list override files: %w", err)
	}

	for _, basename := range basenames {
		if !strings.HasPrefix(basename, overrideFilePrefix) ||
			!strings.HasSuffix(basename, overrideFileSuffix) {
			continue
		}

		flagsFile := path.Join(hiddenAPIDir, basename)

		slog.Debug("Checking override file for fragment flags", "file", flagsFile)

		// Map legacy names onto slightly more meaningful names for the
		// fragment-owned copy.
		if renamed, ok := legacyBasenames[basename]; ok {
			basename = renamed
		}

		propertyName := strings.TrimPrefix(basename, overrideFilePrefix)
		propertyName = strings.TrimSuffix(propertyName, overrideFileSuffix)
		propertyName = strings.ReplaceAll(propertyName, "-", "_")

		relBcpfFlagsFile := "hiddenapi/" + basename
		bcpfFlagsFile := path.Join(s.topDir, bcpfDir, relBcpfFlagsFile)

		err := s.planFlagFileChanges(propertyName, flagsFile, relBcpfFlagsFile, bcpfFlagsFile, catalog, result)
		if err != nil {
			return err
		}
	}

	return nil
}

// planFlagFileChanges reads one override file and, when any of its entries
// belong to the fragment, plans their removal from the platform file, their
// addition to the fragment-owned file and the property referencing it.
func (s *OverrideScanner) planFlagFileChanges(
	propertyName, flagsFile, relBcpfFlagsFile, bcpfFlagsFile string,
	catalog *SignatureCatalog,
	result *m.Result,
) error {
	data, err := s.fs.ReadFile(flagsFile)
	if err != nil {
		return fmt.Errorf("read override file: %w", err)
	}

	var matched []string

	for _, line := range strings.Split(string(bytes.TrimRight(data, "\n")), "\n") {
		signature := m.Signature(strings.TrimSpace(line))
		if signature == "" {
			continue
		}

		provided, err := catalog.ContainsSignature(signature)
		if err != nil {
			return err
		}

		if provided {
			// The signature is provided by the fragment so its entry needs
			// to move to the fragment specific file.
			matched = append(matched, string(signature))
		}
	}

	if len(matched) == 0 {
		return nil
	}

	insert := indentLines(matched, "            ")

	result.FileChanges = append(result.FileChanges, m.FileChange{
		Path:        s.relToTop(flagsFile),
		Description: fmt.Sprintf("Remove the following entries:\n%s\n", insert),
	})

	result.FileChanges = append(result.FileChanges, m.FileChange{
		Path:        s.relToTop(bcpfFlagsFile),
		Description: fmt.Sprintf("Add the following entries:\n%s\n", insert),
	})

	result.PropertyChanges = append(result.PropertyChanges, m.PropertyChange{
		Name:   propertyName,
		Values: []string{relBcpfFlagsFile},
	})

	return nil
}

func (s *OverrideScanner) relToTop(p string) string {
	return strings.TrimPrefix(strings.TrimPrefix(p, s.topDir), "/")
}

func indentLines(lines []string, indent string) string {
	indented := make([]string, 0, len(lines))
	for _, line := range lines {
		indented = append(indented, indent+line)
	}

	return strings.Join(indented, "\n")
}
