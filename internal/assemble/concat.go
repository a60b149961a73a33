package assemble

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/presspause/slidecast/internal/workarea"
)

// concatAudio joins the per-slide clips, in slide order, into one continuous
// lossless track using the concat demuxer (stream-level, no decode of the
// PCM payload into a lossy round trip). Skipped when the artifact exists.
func (p *Pipeline) concatAudio(ctx context.Context, clips []string) (string, error) {
	out := p.opts.Store.Path(workarea.FullAudioKey)
	if p.opts.Store.Exists(workarea.FullAudioKey) {
		p.emit(StageConcat, KindNote, "audio track cached, skipping")
		return out, nil
	}

	listPath := p.opts.Store.Path(workarea.AudioListKey)
	if err := writeConcatList(listPath, clips); err != nil {
		return "", err
	}

	_, err := p.opts.Runner.Run(ctx, "ffmpeg",
		"-y",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c:a", "pcm_s16le",
		out,
	)
	if err != nil {
		return "", err
	}
	return out, nil
}

// writeConcatList writes a concat demuxer list file. Paths use forward
// slashes; the demuxer treats backslashes as escapes.
func writeConcatList(path string, entries []string) error {
	var sb strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&sb, "file '%s'\n", strings.ReplaceAll(entry, "\\", "/"))
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}
