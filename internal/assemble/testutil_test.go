package assemble

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/presspause/slidecast/internal/ffmpeg"
	"github.com/presspause/slidecast/internal/notes"
	"github.com/presspause/slidecast/internal/workarea"
)

// fakeRunner simulates ffmpeg/ffprobe without shelling out. Encode calls
// create their output file so existence gating behaves like the real tool;
// probe calls answer from a duration table.
type fakeRunner struct {
	calls [][]string

	// durations maps output base names to probed durations; probes of
	// unknown files return defaultDur.
	durations  map[string]float64
	defaultDur float64

	// failCrossfade makes the xfade render fail, forcing the hard-cut path.
	failCrossfade bool

	// analysisStderr is returned for null-sink (analysis) invocations.
	analysisStderr string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{durations: map[string]float64{}, defaultDur: 5.2}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (ffmpeg.Result, error) {
	f.calls = append(f.calls, append([]string{name}, args...))

	if name == "ffprobe" {
		path := args[len(args)-1]
		dur, ok := f.durations[filepath.Base(path)]
		if !ok {
			dur = f.defaultDur
		}
		return ffmpeg.Result{Stdout: fmt.Sprintf(`{"format":{"duration":"%f"}}`, dur)}, nil
	}

	joined := strings.Join(args, " ")
	if strings.HasSuffix(joined, "-f null -") {
		return ffmpeg.Result{Stderr: f.analysisStderr}, nil
	}
	if f.failCrossfade && strings.Contains(joined, "xfade") {
		return ffmpeg.Result{Stderr: "Error initializing filter graph"}, errors.New("ffmpeg failed: exit status 1")
	}

	// Encode call: materialize the output artifact.
	out := args[len(args)-1]
	if err := os.WriteFile(out, []byte("media:"+filepath.Base(out)), 0o644); err != nil {
		return ffmpeg.Result{}, err
	}
	return ffmpeg.Result{}, nil
}

func (f *fakeRunner) encodeCalls() int {
	n := 0
	for _, call := range f.calls {
		if call[0] == "ffmpeg" {
			n++
		}
	}
	return n
}

func (f *fakeRunner) callsContaining(substr string) int {
	n := 0
	for _, call := range f.calls {
		if strings.Contains(strings.Join(call, " "), substr) {
			n++
		}
	}
	return n
}

// fixture builds a notes list plus slide and audio directories. Slides whose
// text is non-empty get a narration WAV on disk.
type fixture struct {
	notes     []notes.Note
	slidesDir string
	audioDir  string
	outPath   string
	store     *workarea.DirStore
}

func newFixture(t *testing.T, texts []string) *fixture {
	t.Helper()
	base := t.TempDir()
	f := &fixture{
		slidesDir: filepath.Join(base, "slides"),
		audioDir:  filepath.Join(base, "audio"),
		outPath:   filepath.Join(base, "out.mp4"),
	}
	for _, dir := range []string{f.slidesDir, f.audioDir} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for i, text := range texts {
		n := notes.Note{Slide: i + 1, Text: text}
		f.notes = append(f.notes, n)
		if err := os.WriteFile(filepath.Join(f.slidesDir, n.ImageName()), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
		if n.Narrated() {
			if err := os.WriteFile(filepath.Join(f.audioDir, n.AudioName()), []byte("wav"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	store, err := workarea.ForOutput(f.outPath)
	if err != nil {
		t.Fatal(err)
	}
	f.store = store
	return f
}

func (f *fixture) pipeline(t *testing.T, runner ffmpeg.Runner, progress ProgressFunc) *Pipeline {
	t.Helper()
	p, err := New(Options{
		Notes:      f.notes,
		SlidesDir:  f.slidesDir,
		AudioDir:   f.audioDir,
		OutputPath: f.outPath,
		Store:      f.store,
		Runner:     runner,
		Progress:   progress,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}
