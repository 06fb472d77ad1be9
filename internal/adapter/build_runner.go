package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ErrBuildWaitTimeout is returned when the build produced all its output
// but did not exit within the bounded wait.
var ErrBuildWaitTimeout = errors.New("timed out waiting for build to exit")

// BuildOperation is a running build whose output can be consumed as a line
// stream. Wait must be called after the stream is exhausted.
type BuildOperation interface {
	// Lines returns the merged stdout/stderr of the build as a LineStream.
	Lines() LineStream

	// Wait blocks until the build exits, up to the given timeout. It returns
	// an error for a non-zero exit status or when the timeout elapses.
	Wait(timeout time.Duration) error
}

// BuildRunner abstracts invocation of the platform build so the analysis
// pipeline can be tested without a checkout.
type BuildRunner interface {
	// BuildFile starts a build of the given top-relative target file and
	// returns the running operation.
	BuildFile(ctx context.Context, target string) (BuildOperation, error)
}

// SoongRunner runs build targets through soong_ui from the top of the
// Android source tree.
type SoongRunner struct {
	topDir string
}

// NewSoongRunner constructs a SoongRunner rooted at topDir.
func NewSoongRunner(topDir string) *SoongRunner {
	return &SoongRunner{topDir: topDir}
}

// BuildFile starts "build/soong/soong_ui.bash --make-mode <target>" with
// stderr merged into stdout, so inconsistency diagnostics show up in the
// line stream.
func (r *SoongRunner) BuildFile(ctx context.Context, target string) (BuildOperation, error) {
	// The build expects targets relative to the top of the tree.
	target = strings.TrimPrefix(target, r.topDir)

	cmd := exec.CommandContext(ctx, "build/soong/soong_ui.bash", "--make-mode", target)
	cmd.Dir = r.topDir

	slog.Debug("Running build", "cmd", strings.Join(cmd.Args, " "), "dir", r.topDir)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start build of %s: %w", target, err)
	}

	return &soongOperation{
		target: target,
		cmd:    cmd,
		stream: NewLineStream(stdout),
	}, nil
}

type soongOperation struct {
	target string
	cmd    *exec.Cmd
	stream LineStream
}

func (op *soongOperation) Lines() LineStream {
	return op.stream
}

func (op *soongOperation) Wait(timeout time.Duration) error {
	done := make(chan error, 1)

	go func() {
		done <- op.cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("build of %s failed: %w", op.target, err)
		}

		slog.Debug("Build succeeded", "target", op.target)

		return nil
	case <-time.After(timeout):
		return fmt.Errorf("build of %s: %w", op.target, ErrBuildWaitTimeout)
	}
}
