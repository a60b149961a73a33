// Package logging handles generation of assembly reports for finished runs

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/presspause/slidecast/internal/assemble"
)

// ReportData collects everything the report needs about one run.
type ReportData struct {
	NotesPath string
	SlidesDir string
	AudioDir  string

	StartTime time.Time
	EndTime   time.Time

	Result *assemble.Result

	// Chain is the audio filter chain applied at mux time.
	Chain string
}

// GenerateReport writes the run report beside the output video:
// talk.mp4 → talk.log.
func GenerateReport(data ReportData) error {
	if data.Result == nil {
		return fmt.Errorf("report: no result to write")
	}
	logPath := strings.TrimSuffix(data.Result.OutputPath, filepath.Ext(data.Result.OutputPath)) + ".log"

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeRunSummary(f, data)
	writeSlideTable(f, data.Result)
	writeAudioSection(f, data)

	return nil
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "SLIDECAST ASSEMBLY REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Notes:   %s\n", data.NotesPath)
	fmt.Fprintf(w, "Slides:  %s\n", data.SlidesDir)
	fmt.Fprintf(w, "Audio:   %s\n", data.AudioDir)
	fmt.Fprintf(w, "Output:  %s\n", data.Result.OutputPath)
	fmt.Fprintf(w, "Started: %s\n", data.StartTime.Format(time.RFC3339))
	fmt.Fprintln(w)
}

func writeRunSummary(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Run Summary")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Wall time:      %.1fs\n", data.EndTime.Sub(data.StartTime).Seconds())
	fmt.Fprintf(w, "Video duration: %.1fs\n", data.Result.Duration)
	fmt.Fprintf(w, "Output size:    %d bytes\n", data.Result.SizeBytes)
	if data.Result.UsedFallback {
		fmt.Fprintln(w, "Transitions:    hard cuts (crossfade render failed)")
	} else {
		fmt.Fprintln(w, "Transitions:    crossfades")
	}
	fmt.Fprintln(w)
}

func writeSlideTable(w io.Writer, result *assemble.Result) {
	if len(result.SlideDurations) == 0 {
		return
	}
	fmt.Fprintln(w, "Slide Timings")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	table := &MetricTable{Headers: []string{"On screen"}}
	for i, d := range result.SlideDurations {
		table.AddRow(fmt.Sprintf("slide %02d", i+1), []string{formatMetric(d, 1)}, "s", "")
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w)
}

func writeAudioSection(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Audio Post-processing")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Loudness: %s\n", data.Result.Normalization)
	if data.Chain != "" {
		fmt.Fprintf(w, "Chain:    %s\n", data.Chain)
	}
}
