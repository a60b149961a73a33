package assemble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/presspause/slidecast/internal/ffmpeg"
	"github.com/presspause/slidecast/internal/workarea"
)

// prepareSlideAudio produces one lossless clip per slide: narrated clips get
// pre/post-roll silence padding, un-narrated slides get a fixed-duration
// silence. Both are idempotent by artifact existence; an existing clip is
// only probed for its duration. Returns the per-slide durations (same length
// and order as the notes) and the clip paths in track order.
func (p *Pipeline) prepareSlideAudio(ctx context.Context) ([]float64, []string, error) {
	durations := make([]float64, 0, len(p.opts.Notes))
	clips := make([]string, 0, len(p.opts.Notes))

	for _, n := range p.opts.Notes {
		src := filepath.Join(p.opts.AudioDir, n.AudioName())
		if _, err := os.Stat(src); err == nil {
			key := workarea.PaddedKey(n.Slide)
			if !p.opts.Store.Exists(key) {
				if err := p.padClip(ctx, src, p.opts.Store.Path(key)); err != nil {
					return nil, nil, fmt.Errorf("slide %02d: pad: %w", n.Slide, err)
				}
			}
			dur, err := ffmpeg.Duration(ctx, p.opts.Runner, p.opts.Store.Path(key))
			if err != nil {
				return nil, nil, fmt.Errorf("slide %02d: %w", n.Slide, err)
			}
			durations = append(durations, dur)
			clips = append(clips, p.opts.Store.Path(key))
			p.emit(StageAudio, KindNote, "slide %02d: %.1fs (narrated)", n.Slide, dur)
			continue
		}

		key := workarea.SilenceKey(n.Slide)
		if !p.opts.Store.Exists(key) {
			if err := p.silenceClip(ctx, SilentSlideDuration, p.opts.Store.Path(key)); err != nil {
				return nil, nil, fmt.Errorf("slide %02d: silence: %w", n.Slide, err)
			}
		}
		durations = append(durations, SilentSlideDuration)
		clips = append(clips, p.opts.Store.Path(key))
		p.emit(StageAudio, KindNote, "slide %02d: %.1fs (silent)", n.Slide, SilentSlideDuration)
	}
	return durations, clips, nil
}

// padClip wraps a narration clip with PreRoll/PostRoll silence. All three
// segments are resampled to the common 44.1kHz stereo layout before the
// stream concat so the padded clip has one uniform format, then written as
// lossless PCM.
func (p *Pipeline) padClip(ctx context.Context, src, dst string) error {
	graph := fmt.Sprintf(
		"[0:a]atrim=0:%g,aformat=sample_rates=44100:channel_layouts=stereo[pre];"+
			"[1:a]aformat=sample_rates=44100:channel_layouts=stereo[main];"+
			"[2:a]atrim=0:%g,aformat=sample_rates=44100:channel_layouts=stereo[post];"+
			"[pre][main][post]concat=n=3:v=0:a=1[out]",
		PreRoll, PostRoll)

	_, err := p.opts.Runner.Run(ctx, "ffmpeg",
		"-y",
		"-f", "lavfi", "-i", audioChannelSpec,
		"-i", src,
		"-f", "lavfi", "-i", audioChannelSpec,
		"-filter_complex", graph,
		"-map", "[out]",
		"-c:a", "pcm_s16le",
		dst,
	)
	return err
}

// silenceClip synthesizes a silent lossless clip at the common format.
func (p *Pipeline) silenceClip(ctx context.Context, duration float64, dst string) error {
	_, err := p.opts.Runner.Run(ctx, "ffmpeg",
		"-y",
		"-f", "lavfi", "-i", audioChannelSpec,
		"-t", fmt.Sprintf("%g", duration),
		"-c:a", "pcm_s16le",
		dst,
	)
	return err
}
