package postprocess

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/presspause/slidecast/internal/ffmpeg"
)

// Stats is the measurement record captured from loudnorm's analysis pass.
// Loudness normalization needs these global statistics over the whole track
// before it can apply one consistent gain; a single pass would produce
// time-varying, audibly inconsistent gain.
type Stats struct {
	InputI       float64 // measured integrated loudness (LUFS)
	InputLRA     float64 // measured loudness range (LU)
	InputTP      float64 // measured true peak (dBTP)
	InputThresh  float64 // measured gating threshold (LUFS)
	TargetOffset float64 // loudnorm's calculated gain offset for the second pass
}

// rawStats mirrors loudnorm's print_format=json block, which renders every
// numeric field as a string.
type rawStats struct {
	InputI       string `json:"input_i"`
	InputLRA     string `json:"input_lra"`
	InputTP      string `json:"input_tp"`
	InputThresh  string `json:"input_thresh"`
	TargetOffset string `json:"target_offset"`
}

// ParseStats extracts the last loudnorm statistics block from ffmpeg's
// diagnostic stream. Returns an error when no block is present or any of
// the five fields is missing or non-numeric; callers treat that as the
// single-pass fallback branch, not a fatal condition.
func ParseStats(stderr string) (*Stats, error) {
	idx := strings.LastIndex(stderr, `"input_i"`)
	if idx < 0 {
		return nil, fmt.Errorf("no loudnorm statistics block in output")
	}
	start := strings.LastIndex(stderr[:idx], "{")
	if start < 0 {
		return nil, fmt.Errorf("loudnorm statistics block has no opening brace")
	}
	end := strings.Index(stderr[start:], "}")
	if end < 0 {
		return nil, fmt.Errorf("loudnorm statistics block has no closing brace")
	}
	block := stderr[start : start+end+1]

	var raw rawStats
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, fmt.Errorf("parse loudnorm statistics: %w", err)
	}

	stats := &Stats{}
	for _, field := range []struct {
		name string
		src  string
		dst  *float64
	}{
		{"input_i", raw.InputI, &stats.InputI},
		{"input_lra", raw.InputLRA, &stats.InputLRA},
		{"input_tp", raw.InputTP, &stats.InputTP},
		{"input_thresh", raw.InputThresh, &stats.InputThresh},
		{"target_offset", raw.TargetOffset, &stats.TargetOffset},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(field.src), 64)
		if err != nil {
			return nil, fmt.Errorf("loudnorm statistics: field %s: %w", field.name, err)
		}
		*field.dst = v
	}
	return stats, nil
}

// analysisFilter renders loudnorm in measurement mode for the first pass.
func (cfg *ChainConfig) analysisFilter() string {
	return fmt.Sprintf("loudnorm=I=%g:LRA=%g:TP=%g:print_format=json",
		cfg.LoudnormI, cfg.LoudnormLRA, cfg.LoudnormTP)
}

// TwoPassFilter renders the second-pass loudnorm stage from the measured
// statistics. linear=true applies one consistent gain across the track
// instead of loudnorm's default dynamic mode.
func (cfg *ChainConfig) TwoPassFilter(stats *Stats) string {
	return fmt.Sprintf(
		"loudnorm=I=%g:LRA=%g:TP=%g:measured_I=%g:measured_LRA=%g:measured_TP=%g:measured_thresh=%g:offset=%g:linear=true:print_format=summary",
		cfg.LoudnormI, cfg.LoudnormLRA, cfg.LoudnormTP,
		stats.InputI, stats.InputLRA, stats.InputTP, stats.InputThresh, stats.TargetOffset)
}

// Analyze runs the analysis pass: the chain minus limiter with loudnorm in
// measurement mode, decoded to a null sink. Returns the parsed statistics
// block from ffmpeg's stderr.
func (cfg *ChainConfig) Analyze(ctx context.Context, runner ffmpeg.Runner, audioPath string) (*Stats, error) {
	chain := cfg.BuildChain(ChainOptions{
		IncludeLimiter:   false,
		LoudnormOverride: cfg.analysisFilter(),
	})
	res, err := runner.Run(ctx, "ffmpeg",
		"-hide_banner",
		"-i", audioPath,
		"-af", chain,
		"-f", "null", "-",
	)
	if err != nil {
		return nil, fmt.Errorf("loudnorm analysis pass: %w", err)
	}
	return ParseStats(res.Stderr)
}

// NormalizationMode records which loudness path produced the final chain.
type NormalizationMode string

const (
	ModeSinglePass NormalizationMode = "single-pass"
	ModeTwoPass    NormalizationMode = "two-pass"
)

// ResolveChain builds the filter chain for the final encode. When two-pass
// normalization is configured it runs the analysis pass first; an analysis
// failure or unparsable statistics block falls back to single-pass with a
// diagnostic rather than aborting the run.
func (cfg *ChainConfig) ResolveChain(ctx context.Context, runner ffmpeg.Runner, audioPath string, warnf func(format string, args ...any)) (string, NormalizationMode) {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	if cfg.LoudnormEnabled && cfg.LoudnormTwoPass {
		stats, err := cfg.Analyze(ctx, runner, audioPath)
		if err == nil {
			return cfg.BuildChain(ChainOptions{
				IncludeLimiter:   true,
				LoudnormOverride: cfg.TwoPassFilter(stats),
			}), ModeTwoPass
		}
		warnf("loudnorm analysis failed, falling back to single-pass: %v", err)
	}
	return cfg.BuildChain(ChainOptions{IncludeLimiter: true}), ModeSinglePass
}
