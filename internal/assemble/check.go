package assemble

import (
	"context"
	"path/filepath"

	"github.com/presspause/slidecast/internal/ffmpeg"
	"github.com/presspause/slidecast/internal/postprocess"
)

// SlideCheck is the dry-run report for one slide.
type SlideCheck struct {
	Slide       int
	Narrated    bool
	AudioPath   string
	RawDuration float64 // narration length before padding, 0 for silent slides
	Duration    float64 // on-screen time including padding
}

// CheckReport is the result of a dry run: what the pipeline would build,
// without rendering anything.
type CheckReport struct {
	Slides []SlideCheck

	// EstimatedDuration is the crossfade-compressed timeline length.
	EstimatedDuration float64

	// Chain is the audio filter chain the mux would apply (single-pass
	// form; a two-pass run substitutes measured values at mux time).
	Chain string
	// TwoPass reports whether two-pass loudness normalization is configured.
	TwoPass bool
}

// Check validates assets and probes narration durations without writing any
// artifacts. The per-slide timings match what a real run would produce.
func (p *Pipeline) Check(ctx context.Context) (*CheckReport, error) {
	if err := Preflight(p.opts.Notes, p.opts.AudioDir); err != nil {
		return nil, err
	}

	report := &CheckReport{
		Chain:   p.opts.Chain.BuildChain(postprocess.ChainOptions{IncludeLimiter: true}),
		TwoPass: p.opts.Chain.LoudnormEnabled && p.opts.Chain.LoudnormTwoPass,
	}

	durations := make([]float64, 0, len(p.opts.Notes))
	for _, note := range p.opts.Notes {
		sc := SlideCheck{Slide: note.Slide, Narrated: note.Narrated()}
		if note.Narrated() {
			sc.AudioPath = filepath.Join(p.opts.AudioDir, note.AudioName())
			raw, err := ffmpeg.Duration(ctx, p.opts.Runner, sc.AudioPath)
			if err != nil {
				return nil, err
			}
			sc.RawDuration = raw
			sc.Duration = raw + PreRoll + PostRoll
		} else {
			sc.Duration = SilentSlideDuration
		}
		report.Slides = append(report.Slides, sc)
		durations = append(durations, sc.Duration)
	}

	report.EstimatedDuration = durations[len(durations)-1]
	if offsets := CrossfadeOffsets(durations, p.opts.Transition); offsets != nil {
		report.EstimatedDuration += offsets[len(offsets)-1]
	}
	return report, nil
}
