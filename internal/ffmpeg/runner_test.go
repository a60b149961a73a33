package ffmpeg

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecRunner(t *testing.T) {
	t.Run("captures stdout and stderr", func(t *testing.T) {
		r := ExecRunner{}
		res, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if strings.TrimSpace(res.Stdout) != "out" {
			t.Errorf("Stdout = %q", res.Stdout)
		}
		if strings.TrimSpace(res.Stderr) != "err" {
			t.Errorf("Stderr = %q", res.Stderr)
		}
	})

	t.Run("non-zero exit surfaces stderr", func(t *testing.T) {
		r := ExecRunner{}
		_, err := r.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "boom") {
			t.Errorf("error missing stderr diagnostic: %v", err)
		}
	})

	t.Run("timeout aborts the process", func(t *testing.T) {
		r := ExecRunner{Timeout: 50 * time.Millisecond}
		start := time.Now()
		_, err := r.Run(context.Background(), "sleep", "5")
		if err == nil {
			t.Fatal("expected timeout error")
		}
		if !strings.Contains(err.Error(), "timed out") {
			t.Errorf("expected timeout error, got: %v", err)
		}
		if time.Since(start) > 2*time.Second {
			t.Error("timeout did not abort promptly")
		}
	})
}

func TestLastStderrLines(t *testing.T) {
	in := "a\nb\nc\nd"
	if got := lastStderrLines(in, 2); got != "c\nd" {
		t.Errorf("lastStderrLines = %q", got)
	}
	if got := lastStderrLines("  \n", 2); got != "" {
		t.Errorf("lastStderrLines on blank = %q", got)
	}
}

type stubRunner struct {
	stdout string
	stderr string
	err    error
	calls  []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	s.calls = append(s.calls, name)
	return Result{Stdout: s.stdout, Stderr: s.stderr}, s.err
}

func TestDuration(t *testing.T) {
	t.Run("parses format duration", func(t *testing.T) {
		r := &stubRunner{stdout: `{"format":{"duration":"5.200000","size":"1234"}}`}
		dur, err := Duration(context.Background(), r, "clip.wav")
		if err != nil {
			t.Fatalf("Duration failed: %v", err)
		}
		if dur != 5.2 {
			t.Errorf("duration = %f, want 5.2", dur)
		}
		if len(r.calls) != 1 || r.calls[0] != "ffprobe" {
			t.Errorf("unexpected calls: %v", r.calls)
		}
	})

	t.Run("missing duration is an error", func(t *testing.T) {
		r := &stubRunner{stdout: `{"format":{}}`}
		if _, err := Duration(context.Background(), r, "clip.wav"); err == nil {
			t.Error("expected error for missing duration")
		}
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		r := &stubRunner{stdout: `nonsense`}
		if _, err := Duration(context.Background(), r, "clip.wav"); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}
