package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/platformbuild/analyze-bcpf/internal/adapter"
	m "github.com/platformbuild/analyze-bcpf/internal/model"
)

// fakeFS is an in-memory adapter.OutputFS.
type fakeFS struct {
	files   map[string][]byte
	removed []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string][]byte{}}
}

func (f *fakeFS) FindOutputFile(root, basename string) (string, error) {
	for path := range f.files {
		if strings.HasPrefix(path, root) && strings.HasSuffix(path, "/"+basename) {
			return path, nil
		}
	}

	return "", fmt.Errorf("could not find %s in %s", basename, root)
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}

	return data, nil
}

func (f *fakeFS) ListDir(dir string) ([]string, error) {
	prefix := dir + "/"

	var names []string

	for path := range f.files {
		if strings.HasPrefix(path, prefix) {
			names = append(names, strings.TrimPrefix(path, prefix))
		}
	}

	if names == nil {
		return nil, fmt.Errorf("no such dir: %s", dir)
	}

	sort.Strings(names)

	return names, nil
}

func (f *fakeFS) RemoveAll(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

// fakeOperation replays canned build output.
type fakeOperation struct {
	lines   []string
	waitErr error
}

func (op *fakeOperation) Lines() adapter.LineStream {
	return adapter.NewStaticLineStream(op.lines)
}

func (op *fakeOperation) Wait(_ time.Duration) error {
	return op.waitErr
}

// fakeRunner serves canned operations per build target.
type fakeRunner struct {
	operations map[string]*fakeOperation
	built      []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{operations: map[string]*fakeOperation{}}
}

func (r *fakeRunner) BuildFile(_ context.Context, target string) (adapter.BuildOperation, error) {
	r.built = append(r.built, target)

	op, ok := r.operations[target]
	if !ok {
		return &fakeOperation{}, nil
	}

	return op, nil
}

// fakeUI records what the pipeline reported.
type fakeUI struct {
	reports     []string
	builds      []string
	diffs       []m.FlagDiffs
	fileChanges [][]m.FileChange
}

func (u *fakeUI) Report(text string) {
	u.reports = append(u.reports, text)
}

func (u *fakeUI) Reportf(format string, args ...any) {
	u.Report(fmt.Sprintf(format, args...))
}

func (u *fakeUI) StartBuild(target string) {
	u.builds = append(u.builds, target)
}

func (u *fakeUI) FinishBuild(string) {}

func (u *fakeUI) DisplayFlagDiffs(diffs m.FlagDiffs) {
	u.diffs = append(u.diffs, diffs)
}

func (u *fakeUI) DisplayFileChanges(changes []m.FileChange) {
	u.fileChanges = append(u.fileChanges, changes)
}
