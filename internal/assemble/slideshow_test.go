package assemble

import (
	"math"
	"strings"
	"testing"
)

func TestCrossfadeOffsets(t *testing.T) {
	const tol = 1e-9

	t.Run("offsets advance relative to compressed timeline", func(t *testing.T) {
		// 5.2 + 2.0 + 5.2 with T=0.5: first offset 4.7, second 4.7+2.0-0.5=6.2
		offsets := CrossfadeOffsets([]float64{5.2, 2.0, 5.2}, 0.5)
		want := []float64{4.7, 6.2}
		if len(offsets) != len(want) {
			t.Fatalf("offsets = %v, want %v", offsets, want)
		}
		for i := range want {
			if math.Abs(offsets[i]-want[i]) > tol {
				t.Errorf("offset[%d] = %g, want %g", i, offsets[i], want[i])
			}
		}
	})

	t.Run("short slide clamps to minimum offset", func(t *testing.T) {
		offsets := CrossfadeOffsets([]float64{0.3, 4.0}, 0.5)
		if offsets[0] != 0.1 {
			t.Errorf("clamped offset = %g, want 0.1", offsets[0])
		}
		for _, o := range offsets {
			if o <= 0 {
				t.Errorf("offset %g must be positive", o)
			}
		}
	})

	t.Run("clamp feeds cumulative position", func(t *testing.T) {
		// After the clamp at 0.1, the next offset builds on 0.1.
		offsets := CrossfadeOffsets([]float64{0.3, 4.0, 4.0}, 0.5)
		want := 0.1 + 4.0 - 0.5
		if math.Abs(offsets[1]-want) > tol {
			t.Errorf("offset[1] = %g, want %g", offsets[1], want)
		}
	})

	t.Run("single slide has no offsets", func(t *testing.T) {
		if offsets := CrossfadeOffsets([]float64{5.0}, 0.5); offsets != nil {
			t.Errorf("offsets = %v, want nil", offsets)
		}
	})
}

func TestCrossfadeArgs(t *testing.T) {
	t.Run("single slide scales without transition logic", func(t *testing.T) {
		f := newFixture(t, []string{"only"})
		p := f.pipeline(t, newFakeRunner(), nil)

		args, err := p.crossfadeArgs([]float64{5.2}, "video.mp4")
		if err != nil {
			t.Fatal(err)
		}
		joined := strings.Join(args, " ")
		if strings.Contains(joined, "xfade") {
			t.Errorf("single slide must not build an xfade chain: %s", joined)
		}
		if !strings.Contains(joined, "[0:v]scale=1920:1080,format=yuv420p[vout]") {
			t.Errorf("single slide graph wrong: %s", joined)
		}
	})

	t.Run("multi-slide chain carries computed offsets", func(t *testing.T) {
		f := newFixture(t, []string{"a", "b", "c"})
		p := f.pipeline(t, newFakeRunner(), nil)

		args, err := p.crossfadeArgs([]float64{5.2, 2.0, 5.2}, "video.mp4")
		if err != nil {
			t.Fatal(err)
		}
		joined := strings.Join(args, " ")
		for _, want := range []string{
			"offset=4.700", "offset=6.200",
			"xfade=transition=fade:duration=0.5",
			"-map [vout]",
			"-c:v libx264 -crf 18 -preset medium",
			"-r 30 -an",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("args missing %q:\n%s", want, joined)
			}
		}
		// One looped input per slide, each with its computed duration
		if got := strings.Count(joined, "-loop 1"); got != 3 {
			t.Errorf("input count = %d, want 3", got)
		}
		if !strings.Contains(joined, "-t 5.200") || !strings.Contains(joined, "-t 2.000") {
			t.Errorf("per-slide durations missing:\n%s", joined)
		}
	})

	t.Run("duration count mismatch rejected", func(t *testing.T) {
		f := newFixture(t, []string{"a", "b"})
		p := f.pipeline(t, newFakeRunner(), nil)
		if _, err := p.crossfadeArgs([]float64{5.2}, "video.mp4"); err == nil {
			t.Error("expected error for mismatched durations")
		}
	})
}
