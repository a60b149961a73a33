package assemble

import (
	"context"
	"fmt"
	"os"

	"github.com/presspause/slidecast/internal/ffmpeg"
	"github.com/presspause/slidecast/internal/notes"
	"github.com/presspause/slidecast/internal/postprocess"
	"github.com/presspause/slidecast/internal/workarea"
)

// Stage names the sequential pipeline phases, in execution order.
type Stage string

const (
	StagePreflight Stage = "preflight"
	StageAudio     Stage = "slide audio"
	StageConcat    Stage = "audio track"
	StageVideo     Stage = "slideshow"
	StageMux       Stage = "mux"
)

// Stages lists the pipeline phases in execution order, for UIs.
var Stages = []Stage{StagePreflight, StageAudio, StageConcat, StageVideo, StageMux}

// EventKind classifies progress events.
type EventKind int

const (
	// KindStart marks a stage beginning.
	KindStart EventKind = iota
	// KindNote carries informational detail, including the two designed
	// fallback notices (crossfade → hard cuts, two-pass → single-pass).
	KindNote
	// KindDone marks a stage completing.
	KindDone
)

// Event is one progress update emitted by the pipeline.
type Event struct {
	Stage   Stage
	Kind    EventKind
	Message string
}

// ProgressFunc receives pipeline progress. May be nil.
type ProgressFunc func(Event)

// Options configures one assembly run.
type Options struct {
	Notes      []notes.Note
	SlidesDir  string
	AudioDir   string
	OutputPath string

	Store  workarea.Store
	Runner ffmpeg.Runner
	Chain  *postprocess.ChainConfig

	// Transition is the crossfade duration; zero means TransitionDuration.
	Transition float64

	Progress ProgressFunc
}

// Result summarizes a completed run.
type Result struct {
	OutputPath     string
	Duration       float64
	SizeBytes      int64
	SlideDurations []float64
	Normalization  postprocess.NormalizationMode
	UsedFallback   bool
}

// Pipeline executes the assembly stages strictly in order; no stage begins
// until its predecessor's artifact exists on disk.
type Pipeline struct {
	opts Options
}

// New validates the options and returns a runnable pipeline.
func New(opts Options) (*Pipeline, error) {
	if len(opts.Notes) == 0 {
		return nil, fmt.Errorf("assemble: no slide notes")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("assemble: work area store is required")
	}
	if opts.Runner == nil {
		return nil, fmt.Errorf("assemble: encoder runner is required")
	}
	if opts.Chain == nil {
		opts.Chain = postprocess.ChainFromTree(postprocess.DefaultTree())
	}
	if opts.Transition <= 0 {
		opts.Transition = TransitionDuration
	}
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("assemble: output path is required")
	}
	return &Pipeline{opts: opts}, nil
}

func (p *Pipeline) emit(stage Stage, kind EventKind, format string, args ...any) {
	if p.opts.Progress != nil {
		p.opts.Progress(Event{Stage: stage, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}
}

// Run executes preflight, per-slide audio, concatenation, slideshow, and
// mux. Each stage's artifact is existence-gated; reruns against an
// unmodified work directory skip all completed encoder work.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.emit(StagePreflight, KindStart, "checking narration assets")
	if err := Preflight(p.opts.Notes, p.opts.AudioDir); err != nil {
		return nil, err
	}
	p.emit(StagePreflight, KindDone, "all narrated slides have audio")

	p.emit(StageAudio, KindStart, "preparing per-slide audio")
	durations, clips, err := p.prepareSlideAudio(ctx)
	if err != nil {
		return nil, fmt.Errorf("slide audio: %w", err)
	}
	p.emit(StageAudio, KindDone, "%d clips ready", len(clips))

	p.emit(StageConcat, KindStart, "concatenating audio track")
	audioPath, err := p.concatAudio(ctx, clips)
	if err != nil {
		return nil, fmt.Errorf("audio concat: %w", err)
	}
	p.emit(StageConcat, KindDone, "audio track ready")

	p.emit(StageVideo, KindStart, "building slideshow")
	videoPath, usedFallback, err := p.buildSlideshow(ctx, durations)
	if err != nil {
		return nil, fmt.Errorf("slideshow: %w", err)
	}
	p.emit(StageVideo, KindDone, "video track ready")

	p.emit(StageMux, KindStart, "muxing final video")
	mode, err := p.mux(ctx, videoPath, audioPath)
	if err != nil {
		return nil, fmt.Errorf("mux: %w", err)
	}
	p.emit(StageMux, KindDone, "output written")

	result := &Result{
		OutputPath:     p.opts.OutputPath,
		SlideDurations: durations,
		Normalization:  mode,
		UsedFallback:   usedFallback,
	}
	if dur, err := ffmpeg.Duration(ctx, p.opts.Runner, p.opts.OutputPath); err == nil {
		result.Duration = dur
	}
	if info, err := os.Stat(p.opts.OutputPath); err == nil {
		result.SizeBytes = info.Size()
	}
	return result, nil
}
