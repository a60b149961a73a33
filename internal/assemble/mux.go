package assemble

import (
	"context"
	"os"

	"github.com/presspause/slidecast/internal/postprocess"
)

// mux combines the finished video and audio tracks into the final container.
// The video stream is copied (it was already finally encoded by the
// slideshow stage); audio passes through the post-processing chain and is
// encoded to AAC exactly once. -shortest clips the output to the shorter
// track and +faststart fronts the index for streaming playback.
//
// Like the other stages, the mux is existence-gated on its artifact (the
// output file itself), so a rerun over a finished work directory performs
// no encoder work at all.
func (p *Pipeline) mux(ctx context.Context, videoPath, audioPath string) (postprocess.NormalizationMode, error) {
	if info, err := os.Stat(p.opts.OutputPath); err == nil && info.Mode().IsRegular() {
		p.emit(StageMux, KindNote, "output exists, skipping mux")
		return "", nil
	}

	chain, mode := p.opts.Chain.ResolveChain(ctx, p.opts.Runner, audioPath, func(format string, args ...any) {
		p.emit(StageMux, KindNote, format, args...)
	})
	if mode == postprocess.ModeTwoPass {
		p.emit(StageMux, KindNote, "two-pass loudness normalization enabled")
	}

	_, err := p.opts.Runner.Run(ctx, "ffmpeg",
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-af", chain,
		"-c:a", "aac", "-b:a", audioBitrate,
		"-ar", audioSampleRate,
		"-movflags", "+faststart",
		"-shortest",
		p.opts.OutputPath,
	)
	if err != nil {
		return mode, err
	}
	return mode, nil
}
