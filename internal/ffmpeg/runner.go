// Package ffmpeg invokes the external ffmpeg and ffprobe binaries.
//
// Every pipeline stage is a blocking call to one of these tools, bounded by
// a fixed timeout. The Runner seam exists so tests can count or fake encoder
// invocations without shelling out.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single encoder invocation.
const DefaultTimeout = 600 * time.Second

// Result carries the captured output of a finished invocation. Stderr is
// kept even on success: ffmpeg writes filter diagnostics (loudnorm stats
// among them) there.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes an external tool and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Timeout bounds each invocation. Zero means DefaultTimeout.
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return res, fmt.Errorf("%s timed out after %s", name, timeout)
		}
		if msg := lastStderrLines(res.Stderr, 8); msg != "" {
			return res, fmt.Errorf("%s failed: %w\n%s", name, err, msg)
		}
		return res, fmt.Errorf("%s failed: %w", name, err)
	}
	return res, nil
}

// lastStderrLines trims tool output to the tail that usually carries the
// actual diagnostic, keeping errors readable.
func lastStderrLines(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Available reports whether the named tool can be found on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
