package assemble

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/presspause/slidecast/internal/workarea"
)

// CrossfadeOffsets computes the timeline position at which each slide begins
// crossfading into the next. Each offset is cumulative + duration - T; the
// cumulative position advances to the offset itself (not the raw duration
// sum) because every crossfade compresses the timeline by the overlap.
// Offsets are clamped to a minimum so a slide shorter than the transition
// never produces a zero or negative overlap.
func CrossfadeOffsets(durations []float64, transition float64) []float64 {
	if len(durations) < 2 {
		return nil
	}
	offsets := make([]float64, 0, len(durations)-1)
	cumulative := 0.0
	for i := 1; i < len(durations); i++ {
		offset := cumulative + durations[i-1] - transition
		if offset < minOffset {
			offset = minOffset
		}
		offsets = append(offsets, offset)
		cumulative = offset
	}
	return offsets
}

// buildSlideshow produces the video-only track, cached by existence. The
// build follows a two-state machine: AttemptCrossfade → Done on success, or
// → HardCutFallback → Done on failure. The crossfade path is never retried;
// any graph construction or execution failure transitions straight to the
// fallback.
func (p *Pipeline) buildSlideshow(ctx context.Context, durations []float64) (string, bool, error) {
	out := p.opts.Store.Path(workarea.VideoOnlyKey)
	if p.opts.Store.Exists(workarea.VideoOnlyKey) {
		p.emit(StageVideo, KindNote, "video track cached, skipping")
		return out, false, nil
	}

	err := p.attemptCrossfade(ctx, durations, out)
	if err == nil {
		return out, false, nil
	}
	p.emit(StageVideo, KindNote, "crossfade render failed, falling back to hard cuts: %v", err)

	if err := p.hardCutFallback(ctx, durations, out); err != nil {
		return "", true, err
	}
	return out, true, nil
}

// attemptCrossfade renders the whole slideshow in one pass with an xfade
// chain. For a single slide the image is just scaled to the output frame.
func (p *Pipeline) attemptCrossfade(ctx context.Context, durations []float64, out string) error {
	args, err := p.crossfadeArgs(durations, out)
	if err != nil {
		return err
	}
	_, err = p.opts.Runner.Run(ctx, "ffmpeg", args...)
	return err
}

// crossfadeArgs builds the full ffmpeg invocation for the crossfade path:
// one looped image input per slide, a scale/format stage per input, and a
// left-to-right xfade chain whose final label maps to the encoder.
func (p *Pipeline) crossfadeArgs(durations []float64, out string) ([]string, error) {
	n := len(p.opts.Notes)
	if n != len(durations) {
		return nil, fmt.Errorf("have %d notes but %d durations", n, len(durations))
	}

	args := []string{"-y"}
	for i, note := range p.opts.Notes {
		img := filepath.Join(p.opts.SlidesDir, note.ImageName())
		args = append(args, "-loop", "1", "-t", fmt.Sprintf("%.3f", durations[i]), "-i", img)
	}

	var parts []string
	if n == 1 {
		parts = append(parts, fmt.Sprintf("[0:v]scale=%d:%d,format=yuv420p[vout]", Width, Height))
	} else {
		for i := 0; i < n; i++ {
			parts = append(parts, fmt.Sprintf("[%d:v]scale=%d:%d,format=yuv420p[s%d]", i, Width, Height, i))
		}
		offsets := CrossfadeOffsets(durations, p.opts.Transition)
		prev := "[s0]"
		for i := 1; i < n; i++ {
			label := fmt.Sprintf("v%d", i)
			if i == n-1 {
				label = "vout"
			}
			parts = append(parts, fmt.Sprintf(
				"%s[s%d]xfade=transition=fade:duration=%g:offset=%.3f[%s]",
				prev, i, p.opts.Transition, offsets[i-1], label))
			prev = "[" + label + "]"
		}
	}

	args = append(args,
		"-filter_complex", strings.Join(parts, ";"),
		"-map", "[vout]",
		"-c:v", "libx264", "-crf", fmt.Sprint(CRF), "-preset", Preset,
		"-r", fmt.Sprint(FPS),
		"-an",
		out,
	)
	return args, nil
}

// hardCutFallback renders each slide as an independent fixed-duration
// segment and concatenates them without transitions. Segments are cached
// per slide number so repeated fallbacks reuse prior renders. The result
// has the full un-overlapped sum of slide durations.
func (p *Pipeline) hardCutFallback(ctx context.Context, durations []float64, out string) error {
	segments := make([]string, 0, len(p.opts.Notes))
	for i, note := range p.opts.Notes {
		key := workarea.SegmentKey(note.Slide)
		seg := p.opts.Store.Path(key)
		if !p.opts.Store.Exists(key) {
			img := filepath.Join(p.opts.SlidesDir, note.ImageName())
			_, err := p.opts.Runner.Run(ctx, "ffmpeg",
				"-y",
				"-loop", "1", "-i", img,
				"-t", fmt.Sprintf("%.3f", durations[i]),
				"-vf", fmt.Sprintf("scale=%d:%d,format=yuv420p", Width, Height),
				"-c:v", "libx264", "-crf", fmt.Sprint(CRF), "-preset", Preset,
				"-r", fmt.Sprint(FPS),
				"-an",
				seg,
			)
			if err != nil {
				return fmt.Errorf("segment %02d: %w", note.Slide, err)
			}
		}
		segments = append(segments, seg)
	}

	listPath := p.opts.Store.Path(workarea.SegmentListKey)
	if err := writeConcatList(listPath, segments); err != nil {
		return err
	}

	_, err := p.opts.Runner.Run(ctx, "ffmpeg",
		"-y",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c:v", "libx264", "-crf", fmt.Sprint(CRF), "-preset", Preset,
		"-an",
		out,
	)
	return err
}
