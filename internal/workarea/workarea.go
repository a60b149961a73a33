// Package workarea manages the on-disk cache of intermediate pipeline
// artifacts. Artifact presence is the resumability mechanism: a stage whose
// named output already exists is skipped entirely on rerun.
//
// The cache is existence-based only. A re-recorded input with the same
// filename will NOT invalidate artifacts derived from it; callers that need
// a clean rebuild must remove the work directory themselves.
package workarea

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the artifact cache contract. Keys are deterministic names built
// from stage and slide number, e.g. "slide_03_padded.wav".
type Store interface {
	// Exists reports whether the named artifact is present and complete.
	Exists(key string) bool
	// Path returns the absolute path where the named artifact lives (or
	// will live once its stage runs).
	Path(key string) string
	// Dir returns the work directory root.
	Dir() string
}

// DirStore is the filesystem-backed Store used by the pipeline.
type DirStore struct {
	dir string
}

// Open creates the work directory (and parents) if needed and returns a
// store rooted there.
func Open(dir string) (*DirStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("workarea: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("workarea: create %s: %w", dir, err)
	}
	return &DirStore{dir: dir}, nil
}

// ForOutput returns the conventional work directory for an output file:
// "<stem>_work/v2" beside the output.
func ForOutput(outputPath string) (*DirStore, error) {
	stem := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	return Open(filepath.Join(filepath.Dir(outputPath), stem+"_work", "v2"))
}

func (s *DirStore) Exists(key string) bool {
	info, err := os.Stat(s.Path(key))
	return err == nil && info.Mode().IsRegular()
}

func (s *DirStore) Path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *DirStore) Dir() string {
	return s.dir
}

// Artifact keys for the assembly stages.
func PaddedKey(slide int) string  { return fmt.Sprintf("slide_%02d_padded.wav", slide) }
func SilenceKey(slide int) string { return fmt.Sprintf("slide_%02d_silence.wav", slide) }
func SegmentKey(slide int) string { return fmt.Sprintf("seg_%02d.mp4", slide) }

const (
	// FullAudioKey is the concatenated lossless audio track.
	FullAudioKey = "full_audio.wav"
	// VideoOnlyKey is the finished video track before muxing.
	VideoOnlyKey = "video_only.mp4"
	// AudioListKey is the concat demuxer list for the audio track.
	AudioListKey = "audio_concat.txt"
	// SegmentListKey is the concat demuxer list for fallback segments.
	SegmentListKey = "video_concat.txt"
)
