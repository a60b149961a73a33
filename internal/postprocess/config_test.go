package postprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMerge(t *testing.T) {
	t.Run("later layer wins key-by-key", func(t *testing.T) {
		base := Tree{"a": 1, "b": Tree{"x": 1, "y": 2}}
		override := Tree{"b": Tree{"y": 3}, "c": 4}

		merged := Merge(base, override)

		b, _ := asTree(merged["b"])
		if b["x"] != 1 || b["y"] != 3 {
			t.Errorf("nested merge wrong: %v", b)
		}
		if merged["a"] != 1 || merged["c"] != 4 {
			t.Errorf("top-level merge wrong: %v", merged)
		}
	})

	t.Run("scalar override replaces whole sub-object", func(t *testing.T) {
		base := Tree{"limiter": Tree{"enabled": true, "intensity": 1.0}}
		override := Tree{"limiter": false}

		merged := Merge(base, override)
		if merged["limiter"] != false {
			t.Errorf("scalar should replace object, got %v", merged["limiter"])
		}
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		base := Tree{"s": Tree{"k": 1}}
		override := Tree{"s": Tree{"k": 2}}

		_ = Merge(base, override)

		s, _ := asTree(base["s"])
		if s["k"] != 1 {
			t.Errorf("base mutated: %v", base)
		}
	})

	t.Run("default tree is a fresh value each call", func(t *testing.T) {
		first := DefaultTree()
		hp, _ := asTree(first["highpass"])
		hp["frequency"] = 999

		second := DefaultTree()
		hp2, _ := asTree(second["highpass"])
		if hp2["frequency"] == 999 {
			t.Error("DefaultTree shares state between calls")
		}
	})
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lang_config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collectWarnings(warnings *[]string) func(string, ...any) {
	return func(format string, args ...any) {
		*warnings = append(*warnings, fmt.Sprintf(format, args...))
	}
}

func TestResolve(t *testing.T) {
	const config = `
de:
  audio_postprocessing:
    highpass:
      frequency: 100
    loudnorm:
      two_pass: true
  voice_overrides:
    anna:
      audio_postprocessing:
        deesser:
          enabled: true
          intensity: 0.4
        highpass:
          frequency: 120
`

	t.Run("language layer overrides defaults", func(t *testing.T) {
		tree := Resolve(writeConfig(t, config), "de", "", nil)
		cfg := ChainFromTree(tree)
		if cfg.HighpassFreq != 100 {
			t.Errorf("HighpassFreq = %g, want 100", cfg.HighpassFreq)
		}
		if !cfg.LoudnormTwoPass {
			t.Error("two_pass override not applied")
		}
		// untouched defaults survive
		if cfg.LimiterBaseLimit != 0.891 {
			t.Errorf("LimiterBaseLimit = %g, want default 0.891", cfg.LimiterBaseLimit)
		}
	})

	t.Run("voice layer overrides language layer", func(t *testing.T) {
		tree := Resolve(writeConfig(t, config), "de", "anna", nil)
		cfg := ChainFromTree(tree)
		if cfg.HighpassFreq != 120 {
			t.Errorf("HighpassFreq = %g, want voice override 120", cfg.HighpassFreq)
		}
		if !cfg.DeesserEnabled || cfg.DeesserIntensity != 0.4 {
			t.Errorf("voice deesser override not applied: %+v", cfg)
		}
		if !cfg.LoudnormTwoPass {
			t.Error("language layer lost when voice layer applied")
		}
	})

	t.Run("missing file degrades to defaults with diagnostic", func(t *testing.T) {
		var warnings []string
		tree := Resolve(filepath.Join(t.TempDir(), "absent.yaml"), "en", "", collectWarnings(&warnings))
		cfg := ChainFromTree(tree)
		if cfg.HighpassFreq != 80 || cfg.LoudnormI != -16 {
			t.Errorf("defaults not returned: %+v", cfg)
		}
		if len(warnings) != 1 {
			t.Errorf("expected one diagnostic, got %v", warnings)
		}
	})

	t.Run("malformed file degrades to defaults with diagnostic", func(t *testing.T) {
		var warnings []string
		tree := Resolve(writeConfig(t, ":\tnot yaml ["), "en", "", collectWarnings(&warnings))
		cfg := ChainFromTree(tree)
		if cfg.HighpassFreq != 80 {
			t.Errorf("defaults not returned: %+v", cfg)
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "malformed") {
			t.Errorf("expected malformed diagnostic, got %v", warnings)
		}
	})

	t.Run("unknown language degrades to defaults with diagnostic", func(t *testing.T) {
		var warnings []string
		tree := Resolve(writeConfig(t, config), "fr", "", collectWarnings(&warnings))
		cfg := ChainFromTree(tree)
		if cfg.HighpassFreq != 80 {
			t.Errorf("defaults not returned: %+v", cfg)
		}
		if len(warnings) != 1 {
			t.Errorf("expected one diagnostic, got %v", warnings)
		}
	})

	t.Run("unknown voice keeps language layer", func(t *testing.T) {
		tree := Resolve(writeConfig(t, config), "de", "nobody", nil)
		cfg := ChainFromTree(tree)
		if cfg.HighpassFreq != 100 {
			t.Errorf("HighpassFreq = %g, want language value 100", cfg.HighpassFreq)
		}
	})
}
