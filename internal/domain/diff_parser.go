// Package domain implements the reconciliation engine for
// bootclasspath_fragment hidden API analysis: report parsing, signature
// catalog, override file scanning and change planning.
package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// InconsistentFlagsMarker introduces an inconsistent flags report section
// in the build output.
const InconsistentFlagsMarker = "ERROR: Hidden API flags are inconsistent:"

const (
	moduleLinePrefix     = "< "
	monolithicLinePrefix = "> "
)

// Protocol violations in the build output. All of them are fatal, the
// artifacts must be regenerated and the tool re-run.
var (
	// ErrMalformedReport indicates a report triple whose lines do not carry
	// the expected "< " / "> " prefixes.
	ErrMalformedReport = errors.New("invalid inconsistent flags report")

	// ErrSignatureMismatch indicates a triple whose module and monolithic
	// lines name different signatures.
	ErrSignatureMismatch = errors.New("inconsistent signatures in report")

	// ErrTruncatedReport indicates the stream ended in the middle of a
	// report triple.
	ErrTruncatedReport = errors.New("truncated inconsistent flags report")
)

// reportTriple is one entry of an inconsistent flags report: the module
// line, the monolithic line and the separator line that follows them.
type reportTriple struct {
	module     string
	monolithic string
	separator  string
}

// tripleCursor groups a line stream into report triples. It makes the
// truncation checks explicit instead of relying on fixed-size windowing.
type tripleCursor struct {
	stream adapter.LineStream
}

// next returns the next triple, or ok=false at end of stream. A stream
// ending after the module line is a truncation error; a missing separator
// at end of stream is treated as a blank separator.
func (c *tripleCursor) next() (reportTriple, bool, error) {
	module, ok := c.stream.Next()
	if !ok {
		return reportTriple{}, false, nil
	}

	monolithic, ok := c.stream.Next()
	if !ok {
		return reportTriple{}, false, fmt.Errorf(
			"%w: module line %q has no monolithic line", ErrTruncatedReport, module)
	}

	separator, _ := c.stream.Next()

	return reportTriple{
		module:     module,
		monolithic: monolithic,
		separator:  separator,
	}, true, nil
}

// ReportParser scans build output for inconsistent hidden API flag report
// sections and extracts the per-signature flag differences that concern
// one bootclasspath_fragment.
type ReportParser struct {
	// fragmentDir identifies the fragment's output directory, e.g.
	// "art/build/boot/art-bootclasspath-fragment". A report section only
	// matters when its header path contains this directory; sections for
	// other modules are consumed and discarded.
	fragmentDir string
}

// NewReportParser constructs a ReportParser for the given fragment output
// directory.
func NewReportParser(fragmentDir string) *ReportParser {
	return &ReportParser{fragmentDir: fragmentDir}
}

// Scan consumes the whole stream, logging every line at debug level, and
// collects flag differences from any report sections it contains. A stream
// without report sections yields an empty diff map and no error.
func (p *ReportParser) Scan(stream adapter.LineStream) (m.FlagDiffs, error) {
	diffs := m.FlagDiffs{}

	line, ok := stream.Next()
	for ok {
		slog.Debug("build", "line", line)

		for line == InconsistentFlagsMarker {
			separator, sectionDiffs, err := p.scanSection(stream)
			if err != nil {
				return nil, err
			}

			p.merge(diffs, sectionDiffs)

			line = separator
		}

		line, ok = stream.Next()
	}

	return diffs, nil
}

// merge folds one section's diffs into the run's diff map. A signature
// reported by two sections keeps the later report, which may mask a real
// inconsistency, so the overwrite is logged.
func (p *ReportParser) merge(diffs, section m.FlagDiffs) {
	for signature, entry := range section {
		if _, exists := diffs[signature]; exists {
			slog.Warn("Signature reported in multiple sections, keeping the last report",
				"signature", signature)
		}

		diffs[signature] = entry
	}
}

// scanSection parses one report section. The marker line has already been
// consumed. It returns the non-empty separator line that ended the section
// ("" when the stream ended or the separator was blank) and the
// differences the section contributed, which is empty for sections about
// other modules.
func (p *ReportParser) scanSection(stream adapter.LineStream) (string, m.FlagDiffs, error) {
	cursor := &tripleCursor{stream: stream}

	header, ok, err := cursor.next()
	if err != nil {
		return "", nil, err
	}

	if !ok {
		return "", nil, fmt.Errorf("%w: report marker with no header", ErrTruncatedReport)
	}

	// The header triple encodes the two file paths being compared, not a
	// signature. It only decides whether this section concerns the fragment
	// under analysis.
	significant := strings.Contains(header.module, p.fragmentDir)
	if !significant {
		slog.Info("Filtering out errors unrelated to the fragment", "header", header.module)
	}

	if err := checkTriple(header); err != nil {
		return "", nil, err
	}

	diffs := m.FlagDiffs{}

	for {
		triple, ok, err := cursor.next()
		if err != nil {
			return "", nil, err
		}

		if !ok {
			return "", diffs, nil
		}

		if err := checkTriple(reportTriple{
			module:     triple.module,
			monolithic: triple.monolithic,
		}); err != nil {
			return "", nil, err
		}

		moduleParts := strings.Split(strings.TrimPrefix(triple.module, moduleLinePrefix), ",")
		monolithicParts := strings.Split(strings.TrimPrefix(triple.monolithic, monolithicLinePrefix), ",")

		moduleSignature := m.Signature(moduleParts[0])
		monolithicSignature := m.Signature(monolithicParts[0])

		if moduleSignature != monolithicSignature {
			return "", nil, fmt.Errorf(
				"%w: module %q vs monolithic %q",
				ErrSignatureMismatch, moduleSignature, monolithicSignature)
		}

		if significant {
			diffs[moduleSignature] = m.DiffEntry{
				Signature:       moduleSignature,
				ModuleFlags:     m.FlagSet(moduleParts[1:]),
				MonolithicFlags: m.FlagSet(monolithicParts[1:]),
			}
		}

		if triple.separator != "" {
			// A non-blank separator ends the current section and may start
			// the next one.
			return triple.separator, diffs, nil
		}
	}
}

// checkTriple validates the structural shape of a report triple: "< " on
// the module line, "> " on the monolithic line and a blank separator.
func checkTriple(triple reportTriple) error {
	if !strings.HasPrefix(triple.module, moduleLinePrefix) ||
		!strings.HasPrefix(triple.monolithic, monolithicLinePrefix) ||
		triple.separator != "" {
		return fmt.Errorf(
			"%w:\n  module line: %q\n  monolithic line: %q\n  separator line: %q",
			ErrMalformedReport, triple.module, triple.monolithic, triple.separator)
	}

	return nil
}
