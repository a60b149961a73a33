package postprocess

import (
	"fmt"
	"math"
	"strings"
)

// gainEpsilon is the smallest presence-EQ gain worth a processing stage.
const gainEpsilon = 1e-3

// ChainConfig is the effective, typed post-processing configuration built
// from a resolved Tree. Filter order is fixed: de-esser, high-pass, presence
// EQ, loudness normalization, limiter.
type ChainConfig struct {
	// De-esser - automatic sibilance reduction
	DeesserEnabled   bool
	DeesserIntensity float64 // 0.0-1.0, ducking trigger intensity (0 = no-op, stage skipped)
	DeesserMode      string  // "wide" or "narrow" detection band
	DeesserFreq      float64 // Hz, sibilance split frequency

	// High-pass - removes low-frequency rumble below the cutoff
	HighpassEnabled bool
	HighpassFreq    float64 // Hz, cutoff (<=0 skips the stage)

	// Presence EQ - bell boost for speech intelligibility
	PresenceEnabled  bool
	PresenceFreq     float64 // Hz, bell center
	PresenceWidthOct float64 // bandwidth in octaves
	PresenceGainDB   float64 // dB, skipped when |gain| <= gainEpsilon

	// Loudness normalization - EBU R128 targets
	LoudnormEnabled bool
	LoudnormTwoPass bool    // analyze-then-apply when true
	LoudnormI       float64 // LUFS, target integrated loudness
	LoudnormLRA     float64 // LU, target loudness range
	LoudnormTP      float64 // dBTP, true-peak ceiling

	// Limiter - final peak safety net
	LimiterEnabled   bool
	LimiterIntensity float64 // 0.0-1.0; 1.0 limits at base_limit, 0.0 relaxes to 1.0
	LimiterBaseLimit float64 // linear ceiling at full intensity
	LimiterAttack    float64 // ms
	LimiterRelease   float64 // ms
}

// ChainFromTree decodes a resolved configuration tree into a typed chain
// config. Unknown or missing keys fall back to the built-in defaults.
func ChainFromTree(tree Tree) *ChainConfig {
	deesser := section(tree, "deesser")
	highpass := section(tree, "highpass")
	presence := section(tree, "presence_eq")
	loudnorm := section(tree, "loudnorm")
	limiter := section(tree, "limiter")

	return &ChainConfig{
		DeesserEnabled:   getBool(deesser, "enabled", false),
		DeesserIntensity: getFloat(deesser, "intensity", 0.0),
		DeesserMode:      getString(deesser, "mode", "wide"),
		DeesserFreq:      getFloat(deesser, "frequency", 6000),

		HighpassEnabled: getBool(highpass, "enabled", true),
		HighpassFreq:    getFloat(highpass, "frequency", 80),

		PresenceEnabled:  getBool(presence, "enabled", true),
		PresenceFreq:     getFloat(presence, "frequency", 3000),
		PresenceWidthOct: getFloat(presence, "width_octave", 1.5),
		PresenceGainDB:   getFloat(presence, "gain_db", 0.0),

		LoudnormEnabled: getBool(loudnorm, "enabled", true),
		LoudnormTwoPass: getBool(loudnorm, "two_pass", false),
		LoudnormI:       getFloat(loudnorm, "I", -16),
		LoudnormLRA:     getFloat(loudnorm, "LRA", 11),
		LoudnormTP:      getFloat(loudnorm, "TP", -1.5),

		LimiterEnabled:   getBool(limiter, "enabled", true),
		LimiterIntensity: getFloat(limiter, "intensity", 1.0),
		LimiterBaseLimit: getFloat(limiter, "base_limit", 0.891),
		LimiterAttack:    getFloat(limiter, "attack", 5),
		LimiterRelease:   getFloat(limiter, "release", 50),
	}
}

// ChainOptions selects variants of the chain for the two loudnorm passes.
type ChainOptions struct {
	// IncludeLimiter drops the limiter stage when false. The analysis pass
	// measures loudness before limiting so the measured peaks are real.
	IncludeLimiter bool
	// LoudnormOverride replaces the single-pass loudnorm stage outright;
	// used to inject the measurement-mode and second-pass filters.
	LoudnormOverride string
}

// BuildChain renders the ordered filter chain as an ffmpeg -af expression.
// Disabled or below-threshold stages are omitted; an empty chain degenerates
// to the anull passthrough so the -af argument stays valid.
func (cfg *ChainConfig) BuildChain(opts ChainOptions) string {
	var filters []string
	for _, spec := range []string{
		cfg.buildDeesserFilter(),
		cfg.buildHighpassFilter(),
		cfg.buildPresenceFilter(),
		cfg.buildLoudnormStage(opts.LoudnormOverride),
		cfg.buildLimiterFilter(opts.IncludeLimiter),
	} {
		if spec != "" {
			filters = append(filters, spec)
		}
	}
	if len(filters) == 0 {
		return "anull"
	}
	return strings.Join(filters, ",")
}

// buildDeesserFilter builds the sibilance reduction stage.
// Skipped when disabled or when intensity is zero (a zero-intensity
// de-esser is a no-op that still costs a filter pass).
func (cfg *ChainConfig) buildDeesserFilter() string {
	if !cfg.DeesserEnabled {
		return ""
	}
	intensity := math.Max(0, cfg.DeesserIntensity)
	if intensity <= 0 {
		return ""
	}
	mode := cfg.DeesserMode
	if mode == "" {
		mode = "wide"
	}
	return fmt.Sprintf("deesser=i=%.3f:m=%s:f=%d", intensity, mode, int(cfg.DeesserFreq))
}

// buildHighpassFilter builds the rumble high-pass stage.
func (cfg *ChainConfig) buildHighpassFilter() string {
	if !cfg.HighpassEnabled || cfg.HighpassFreq <= 0 {
		return ""
	}
	return fmt.Sprintf("highpass=f=%g", cfg.HighpassFreq)
}

// buildPresenceFilter builds the speech presence bell EQ.
// Negligible gains are skipped to save a processing stage.
func (cfg *ChainConfig) buildPresenceFilter() string {
	if !cfg.PresenceEnabled || math.Abs(cfg.PresenceGainDB) <= gainEpsilon {
		return ""
	}
	return fmt.Sprintf("equalizer=f=%g:width_type=o:width=%g:g=%g",
		cfg.PresenceFreq, cfg.PresenceWidthOct, cfg.PresenceGainDB)
}

// buildLoudnormStage returns the loudness stage: the caller-supplied
// override (measurement mode or second pass) when present, otherwise the
// single-pass filter from the configured targets.
func (cfg *ChainConfig) buildLoudnormStage(override string) string {
	if override != "" {
		return override
	}
	if !cfg.LoudnormEnabled {
		return ""
	}
	return fmt.Sprintf("loudnorm=I=%g:LRA=%g:TP=%g", cfg.LoudnormI, cfg.LoudnormLRA, cfg.LoudnormTP)
}

// buildLimiterFilter builds the final peak limiter. The effective ceiling
// scales between base_limit (intensity 1.0) and 1.0 (intensity 0.0, no
// limiting effect).
func (cfg *ChainConfig) buildLimiterFilter(include bool) string {
	if !include || !cfg.LimiterEnabled {
		return ""
	}
	intensity := math.Max(0, cfg.LimiterIntensity)
	limit := math.Min(1.0, cfg.LimiterBaseLimit+(1.0-cfg.LimiterBaseLimit)*(1.0-intensity))
	return fmt.Sprintf("alimiter=limit=%.3f:attack=%g:release=%g",
		limit, cfg.LimiterAttack, cfg.LimiterRelease)
}

// section fetches a named sub-tree, tolerating absent or non-map values.
func section(tree Tree, key string) Tree {
	if tree == nil {
		return nil
	}
	sub, _ := asTree(tree[key])
	return sub
}

func getBool(tree Tree, key string, def bool) bool {
	if tree == nil {
		return def
	}
	if v, ok := tree[key].(bool); ok {
		return v
	}
	return def
}

func getFloat(tree Tree, key string, def float64) float64 {
	if tree == nil {
		return def
	}
	switch v := tree[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

func getString(tree Tree, key, def string) string {
	if tree == nil {
		return def
	}
	if v, ok := tree[key].(string); ok && v != "" {
		return v
	}
	return def
}
