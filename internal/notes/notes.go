// Package notes loads the per-slide narration notes that drive assembly.
package notes

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Note is one slide's narration entry. The slide number is the canonical
// ordering key used by every downstream stage: list order, not filename
// sort, determines track order.
type Note struct {
	Slide int    `json:"slide"`
	Text  string `json:"text"`
}

// Narrated reports whether this slide is expected to carry narration audio.
// Whitespace-only text counts as silent.
func (n Note) Narrated() bool {
	return strings.TrimSpace(n.Text) != ""
}

// ImageName returns the slide image filename for this note.
func (n Note) ImageName() string {
	return fmt.Sprintf("slide_%02d.png", n.Slide)
}

// AudioName returns the narration clip filename for this note.
func (n Note) AudioName() string {
	return fmt.Sprintf("slide_%02d.wav", n.Slide)
}

// Load reads an ordered notes array from a JSON file.
func Load(path string) ([]Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	var list []Note
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse notes %s: %w", path, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("notes %s: empty slide list", path)
	}
	for i, n := range list {
		if n.Slide <= 0 {
			return nil, fmt.Errorf("notes %s: entry %d has invalid slide number %d", path, i, n.Slide)
		}
	}
	return list, nil
}
