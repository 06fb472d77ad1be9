package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	"github.com/platformbuild/analyze-bcpf/internal/controller"
	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

const (
	// StubFlagsFile is the monolithic stub API derived flags artifact.
	StubFlagsFile = "out/soong/hiddenapi/hiddenapi-stub-flags.txt"

	// FlagsFile is the monolithic hidden API flags artifact.
	FlagsFile = "out/soong/hiddenapi/hiddenapi-flags.csv"

	// allFlagsBasename is the fragment-scoped flags artifact the signature
	// catalog is loaded from.
	allFlagsBasename = "all-flags.csv"

	// DefaultBuildWaitTimeout bounds the wait for a build to exit once it
	// has produced all of its output.
	DefaultBuildWaitTimeout = 10 * time.Second
)

// Config carries the directories and module names one analysis run works
// against. TopDir is absolute; OutDir is absolute; ProductOutDir is
// relative to TopDir so it can be used as a build target.
type Config struct {
	TopDir        string
	OutDir        string
	ProductOutDir string

	// Bcpf is the bootclasspath_fragment module to analyze.
	Bcpf string

	// Apex and Sdk name the apex and sdk modules containing Bcpf; they are
	// only used to make the advisory text concrete.
	Apex string
	Sdk  string

	BuildWaitTimeout time.Duration
}

// Analyzer drives the build to regenerate the hidden API artifacts,
// captures any reported flag inconsistencies and turns them into a change
// plan. It plans edits only; it never applies them.
type Analyzer struct {
	cfg Config

	runner adapter.BuildRunner
	fs     adapter.OutputFS
	ui     controller.UI

	moduleInfo *adapter.ModuleInfo
	catalog    *SignatureCatalog

	// bcpfDir is the fragment's top-relative source directory, resolved
	// from module info at the start of the run.
	bcpfDir string
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(cfg Config, runner adapter.BuildRunner, fs adapter.OutputFS, ui controller.UI) *Analyzer {
	if cfg.BuildWaitTimeout <= 0 {
		cfg.BuildWaitTimeout = DefaultBuildWaitTimeout
	}

	return &Analyzer{
		cfg:     cfg,
		runner:  runner,
		fs:      fs,
		ui:      ui,
		catalog: NewSignatureCatalog(),
	}
}

// Analyze runs the whole pipeline and returns the finished change plan.
// Any structural or consistency violation aborts the run; there is no
// partial-success mode.
func (a *Analyzer) Analyze(ctx context.Context) (*m.Result, error) {
	a.ui.Reportf("Analyzing bootclasspath_fragment module %s", a.cfg.Bcpf)
	a.ui.Report(introAdvice(a.cfg.Bcpf, a.cfg.Apex, a.cfg.Sdk))

	if err := a.loadModuleInfo(ctx); err != nil {
		return nil, err
	}

	bcpfDir, err := a.moduleInfo.ModulePath(a.cfg.Bcpf)
	if err != nil {
		return nil, err
	}

	a.bcpfDir = bcpfDir

	a.ui.Report("\nCleaning potentially stale files.\n")

	if err := a.cleanStaleFiles(); err != nil {
		return nil, err
	}

	if err := a.buildMonolithicStubsFlags(ctx); err != nil {
		return nil, err
	}

	result := &m.Result{}

	if err := a.buildMonolithicFlags(ctx, result); err != nil {
		return nil, err
	}

	AppendManifestChange(result, a.cfg.Bcpf, a.bcpfDir)

	if len(result.FileChanges) > 0 {
		a.ui.Report("\nThe following modifications need to be made:")

		m.SortFileChanges(result.FileChanges)
		a.ui.DisplayFileChanges(result.FileChanges)
	}

	return result, nil
}

func (a *Analyzer) loadModuleInfo(ctx context.Context) error {
	moduleInfoFile := filepath.Join(a.cfg.ProductOutDir, "module-info.json")

	a.ui.Reportf("\nMaking sure that %s is up to date.\n", moduleInfoFile)

	if err := a.buildQuietly(ctx, moduleInfoFile); err != nil {
		return fmt.Errorf("error building %s: %w", moduleInfoFile, err)
	}

	data, err := a.fs.ReadFile(filepath.Join(a.cfg.TopDir, moduleInfoFile))
	if err != nil {
		return fmt.Errorf("read module info: %w", err)
	}

	info, err := adapter.ParseModuleInfo(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", moduleInfoFile, err)
	}

	a.moduleInfo = info

	return nil
}

// buildQuietly builds a target, draining its output to the debug log. Used
// for targets whose output carries no diagnostics of interest.
func (a *Analyzer) buildQuietly(ctx context.Context, target string) error {
	op, err := a.runner.BuildFile(ctx, target)
	if err != nil {
		return err
	}

	a.ui.StartBuild(target)
	defer a.ui.FinishBuild(target)

	lines := op.Lines()
	for line, ok := lines.Next(); ok; line, ok = lines.Next() {
		slog.Debug("build", "line", line)
	}

	return op.Wait(a.cfg.BuildWaitTimeout)
}

func (a *Analyzer) moduleOutDir() string {
	return filepath.Join(a.cfg.OutDir, "soong/.intermediates", a.bcpfDir, a.cfg.Bcpf)
}

func (a *Analyzer) cleanStaleFiles() error {
	if err := a.fs.RemoveAll(filepath.Join(a.cfg.OutDir, "soong/hiddenapi")); err != nil {
		return fmt.Errorf("clean hiddenapi outputs: %w", err)
	}

	if err := a.fs.RemoveAll(a.moduleOutDir()); err != nil {
		return fmt.Errorf("clean fragment outputs: %w", err)
	}

	return nil
}

// buildHiddenAPIFlags builds one of the monolithic artifacts and scans the
// build output for inconsistency reports about the fragment. A build that
// fails because of reported inconsistencies is expected; a failure without
// any captured diffs is fatal.
func (a *Analyzer) buildHiddenAPIFlags(ctx context.Context, target string) (m.FlagDiffs, error) {
	op, err := a.runner.BuildFile(ctx, target)
	if err != nil {
		return nil, err
	}

	a.ui.StartBuild(target)

	parser := NewReportParser(path.Join(a.bcpfDir, a.cfg.Bcpf))

	diffs, err := parser.Scan(op.Lines())

	a.ui.FinishBuild(target)

	if err != nil {
		return nil, err
	}

	if err := op.Wait(a.cfg.BuildWaitTimeout); err != nil {
		if errors.Is(err, adapter.ErrBuildWaitTimeout) || len(diffs) == 0 {
			return nil, err
		}

		// The build legitimately fails when the flags are inconsistent.
		slog.Debug("Build failed with inconsistent flags", "target", target, "error", err)
	}

	if len(diffs) == 0 {
		return nil, nil
	}

	return diffs, nil
}

func (a *Analyzer) buildMonolithicStubsFlags(ctx context.Context) error {
	a.ui.Reportf(`
Attempting to build %s to verify that the
bootclasspath_fragment has the correct API stubs available...
`, StubFlagsFile)

	diffs, err := a.buildHiddenAPIFlags(ctx, StubFlagsFile)
	if err != nil {
		return err
	}

	if len(diffs) > 0 {
		a.ui.DisplayFlagDiffs(diffs)
		a.ui.Report(stubFlagsDiffAdvice(a.cfg.Bcpf))
	}

	return nil
}

func (a *Analyzer) buildMonolithicFlags(ctx context.Context, result *m.Result) error {
	a.ui.Reportf(`
Attempting to build %s to verify that the
bootclasspath_fragment has the correct hidden API flags...
`, FlagsFile)

	diffs, err := a.buildHiddenAPIFlags(ctx, FlagsFile)
	if err != nil {
		return err
	}

	result.Diffs = diffs

	if err := a.loadAllFlags(); err != nil {
		return err
	}

	if len(diffs) == 0 {
		return nil
	}

	a.ui.DisplayFlagDiffs(diffs)
	a.ui.Report(monolithicFlagsDiffAdvice(a.cfg.Apex))

	a.ui.Report("\nChecking custom hidden API flags....\n")

	scanner := NewOverrideScanner(a.fs, a.cfg.TopDir)

	return scanner.Scan(a.bcpfDir, a.catalog, result)
}

// loadAllFlags populates the signature catalog from the fragment's
// all-flags.csv output file.
func (a *Analyzer) loadAllFlags() error {
	allFlags, err := a.fs.FindOutputFile(a.moduleOutDir(), allFlagsBasename)
	if err != nil {
		return err
	}

	data, err := a.fs.ReadFile(allFlags)
	if err != nil {
		return fmt.Errorf("read %s: %w", allFlags, err)
	}

	return a.catalog.Load(adapter.NewLineStream(bytes.NewReader(data)))
}
