package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/presspause/slidecast/internal/notes"
)

// MissingAsset describes one narrated slide whose narration clip is absent.
// LegacyMP3 is set when a lossy clip exists at the same slide number; that
// signals a format migration issue and is reported as a hint, never used
// for assembly.
type MissingAsset struct {
	Slide     int
	WantPath  string
	LegacyMP3 string
}

// PreflightError reports every missing narration asset at once so a single
// run surfaces the full remediation list.
type PreflightError struct {
	Missing []MissingAsset
}

func (e *PreflightError) Error() string {
	var sb strings.Builder
	sb.WriteString("missing narration WAV files for narrated slides:\n")
	for _, m := range e.Missing {
		fmt.Fprintf(&sb, "  - slide %02d: expected %s\n", m.Slide, m.WantPath)
	}
	var legacy []MissingAsset
	for _, m := range e.Missing {
		if m.LegacyMP3 != "" {
			legacy = append(legacy, m)
		}
	}
	if len(legacy) > 0 {
		sb.WriteString("legacy MP3 detected (migration leftover, not used by the assembler):\n")
		for _, m := range legacy {
			fmt.Fprintf(&sb, "  - slide %02d: found %s\n", m.Slide, m.LegacyMP3)
		}
		sb.WriteString("convert with: ffmpeg -y -i <slide.mp3> -ar 44100 -ac 2 -c:a pcm_s16le <slide.wav>\n")
	}
	sb.WriteString("generate narration clips before assembly")
	return sb.String()
}

// Preflight confirms every narrated slide has its lossless narration clip
// before any encoder work starts. A failure is fatal: no later stage runs.
func Preflight(list []notes.Note, audioDir string) error {
	var missing []MissingAsset
	for _, n := range list {
		if !n.Narrated() {
			continue
		}
		wavPath := filepath.Join(audioDir, n.AudioName())
		if _, err := os.Stat(wavPath); err == nil {
			continue
		}

		m := MissingAsset{Slide: n.Slide, WantPath: wavPath}
		mp3Path := filepath.Join(audioDir, fmt.Sprintf("slide_%02d.mp3", n.Slide))
		if _, err := os.Stat(mp3Path); err == nil {
			m.LegacyMP3 = mp3Path
		}
		missing = append(missing, m)
	}
	if len(missing) > 0 {
		return &PreflightError{Missing: missing}
	}
	return nil
}
