package assemble

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreflight(t *testing.T) {
	t.Run("all narrated slides present", func(t *testing.T) {
		f := newFixture(t, []string{"one", "", "three"})
		if err := Preflight(f.notes, f.audioDir); err != nil {
			t.Errorf("Preflight failed: %v", err)
		}
	})

	t.Run("silent slides need no audio", func(t *testing.T) {
		f := newFixture(t, []string{"", "", ""})
		if err := Preflight(f.notes, f.audioDir); err != nil {
			t.Errorf("Preflight failed for all-silent deck: %v", err)
		}
	})

	t.Run("every missing slide is reported", func(t *testing.T) {
		f := newFixture(t, []string{"one", "two", "three"})
		for _, n := range []int{1, 3} {
			if err := os.Remove(filepath.Join(f.audioDir, f.notes[n-1].AudioName())); err != nil {
				t.Fatal(err)
			}
		}

		err := Preflight(f.notes, f.audioDir)
		var pf *PreflightError
		if !errors.As(err, &pf) {
			t.Fatalf("expected PreflightError, got %v", err)
		}
		if len(pf.Missing) != 2 {
			t.Fatalf("Missing = %d entries, want 2", len(pf.Missing))
		}
		if pf.Missing[0].Slide != 1 || pf.Missing[1].Slide != 3 {
			t.Errorf("missing slides = %+v", pf.Missing)
		}
		for _, want := range []string{"slide 01", "slide 03"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("report missing %q:\n%s", want, err)
			}
		}
	})

	t.Run("legacy MP3 reported as migration hint", func(t *testing.T) {
		f := newFixture(t, []string{"one"})
		if err := os.Remove(filepath.Join(f.audioDir, "slide_01.wav")); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(f.audioDir, "slide_01.mp3"), []byte("mp3"), 0o644); err != nil {
			t.Fatal(err)
		}

		err := Preflight(f.notes, f.audioDir)
		var pf *PreflightError
		if !errors.As(err, &pf) {
			t.Fatalf("expected PreflightError, got %v", err)
		}
		if pf.Missing[0].LegacyMP3 == "" {
			t.Error("legacy MP3 not detected")
		}
		if !strings.Contains(err.Error(), "legacy MP3") {
			t.Errorf("report missing legacy hint:\n%s", err)
		}
		if !strings.Contains(err.Error(), "pcm_s16le") {
			t.Errorf("report missing conversion hint:\n%s", err)
		}
	})
}
