package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// probeResult mirrors the subset of ffprobe's JSON output we read.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

// Duration inspects a media file with ffprobe and returns its container
// duration in seconds.
func Duration(ctx context.Context, r Runner, path string) (float64, error) {
	res, err := r.Run(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}

	var probe probeResult
	if err := json.Unmarshal([]byte(res.Stdout), &probe); err != nil {
		return 0, fmt.Errorf("probe %s: parse: %w", path, err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: no duration in format block", path)
	}
	if dur < 0 {
		return 0, fmt.Errorf("probe %s: negative duration %f", path, dur)
	}
	return dur, nil
}
