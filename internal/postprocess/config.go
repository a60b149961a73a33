// Package postprocess resolves per-language audio post-processing settings
// and turns them into the ffmpeg filter chain applied during the single
// final audio encode.
package postprocess

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tree is the raw configuration shape: five named sections, each with an
// enabled flag and numeric parameters. Kept untyped so layered overrides can
// merge key-by-key regardless of which keys a layer provides.
type Tree = map[string]any

// DefaultTree returns a fresh copy of the built-in post-processing defaults.
// Always a new value: callers merge into it, never mutate a shared default.
func DefaultTree() Tree {
	return Tree{
		"deesser": Tree{
			"enabled":   false,
			"intensity": 0.0,
			"mode":      "wide",
			"frequency": 6000,
		},
		"highpass": Tree{
			"enabled":   true,
			"frequency": 80,
		},
		"presence_eq": Tree{
			"enabled":      true,
			"frequency":    3000,
			"width_octave": 1.5,
			"gain_db":      1.5,
		},
		"loudnorm": Tree{
			"enabled":  true,
			"two_pass": false,
			"I":        -16,
			"LRA":      11,
			"TP":       -1.5,
		},
		"limiter": Tree{
			"enabled":    true,
			"intensity":  1.0,
			"base_limit": 0.891,
			"attack":     5,
			"release":    50,
		},
	}
}

// Merge deep-merges override into base and returns a new tree; neither input
// is modified. For each key, two nested objects merge recursively; any other
// override value (including a scalar over an object) replaces the base value
// outright.
func Merge(base, override Tree) Tree {
	merged := make(Tree, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		overrideMap, overrideIsMap := asTree(v)
		baseMap, baseIsMap := asTree(merged[k])
		if overrideIsMap && baseIsMap {
			merged[k] = Merge(baseMap, overrideMap)
		} else {
			merged[k] = v
		}
	}
	return merged
}

// asTree normalizes the map shapes yaml.v3 can produce.
func asTree(v any) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[any]any:
		out := make(Tree, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// langEntry is one language's block in the config file.
type langEntry struct {
	AudioPostprocessing Tree `yaml:"audio_postprocessing"`
	VoiceOverrides      map[string]struct {
		AudioPostprocessing Tree `yaml:"audio_postprocessing"`
	} `yaml:"voice_overrides"`
}

// Resolve loads the per-language config file and merges three layers in
// order: built-in defaults, the language's audio_postprocessing block, and
// the voice's override block within that language. Missing or malformed
// sources degrade to the accumulated tree with a diagnostic, never an error:
// assembly must not fail because tuning data is absent.
func Resolve(configPath, lang, voiceID string, warnf func(format string, args ...any)) Tree {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	tree := DefaultTree()

	data, err := os.ReadFile(configPath)
	if err != nil {
		warnf("post-processing config %s not readable, using defaults: %v", configPath, err)
		return tree
	}

	var all map[string]langEntry
	if err := yaml.Unmarshal(data, &all); err != nil {
		warnf("post-processing config %s malformed, using defaults: %v", configPath, err)
		return tree
	}

	entry, ok := all[lang]
	if !ok {
		warnf("post-processing config has no entry for language %q, using defaults", lang)
		return tree
	}

	if entry.AudioPostprocessing != nil {
		tree = Merge(tree, entry.AudioPostprocessing)
	}
	if voiceID != "" {
		if voice, ok := entry.VoiceOverrides[voiceID]; ok && voice.AudioPostprocessing != nil {
			tree = Merge(tree, voice.AudioPostprocessing)
		}
	}
	return tree
}
