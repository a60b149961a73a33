package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/presspause/slidecast/internal/assemble"
	"github.com/presspause/slidecast/internal/cli"
	"github.com/presspause/slidecast/internal/ffmpeg"
	"github.com/presspause/slidecast/internal/logging"
	"github.com/presspause/slidecast/internal/notes"
	"github.com/presspause/slidecast/internal/postprocess"
	"github.com/presspause/slidecast/internal/ui"
	"github.com/presspause/slidecast/internal/workarea"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version    bool          `short:"v" help:"Show version information"`
	Config     string        `short:"c" type:"path" help:"Path to YAML post-processing config (optional)"`
	Lang       string        `default:"en" help:"Config language section to apply"`
	VoiceID    string        `name:"voice-id" help:"Voice-specific config overrides to apply"`
	Transition float64       `default:"0.5" help:"Crossfade duration in seconds"`
	Timeout    time.Duration `default:"10m" help:"Per-invocation encoder timeout"`
	Check      bool          `help:"Validate assets and report timings without rendering"`
	Plain      bool          `help:"Line-based progress output instead of the TUI"`
	Logs       bool          `help:"Write an assembly report beside the output video"`

	Notes     string `arg:"" name:"notes" type:"existingfile" help:"Slide notes JSON" optional:""`
	SlidesDir string `arg:"" name:"slides-dir" type:"existingdir" help:"Directory of slide_NN.png images" optional:""`
	AudioDir  string `arg:"" name:"audio-dir" type:"existingdir" help:"Directory of slide_NN.wav narration" optional:""`
	Output    string `arg:"" name:"output" help:"Output video path (.mp4)" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("slidecast"),
		kong.Description("Narrated slideshow video assembler"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if cliArgs.Notes == "" || cliArgs.SlidesDir == "" || cliArgs.AudioDir == "" || cliArgs.Output == "" {
		cli.PrintError("notes, slides-dir, audio-dir and output are all required")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if !ffmpeg.Available(tool) {
			cli.PrintError(fmt.Sprintf("%s not found on PATH", tool))
			os.Exit(1)
		}
	}

	if err := run(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(cliArgs *CLI) error {
	noteList, err := notes.Load(cliArgs.Notes)
	if err != nil {
		return err
	}

	var warnings []string
	tree := postprocess.DefaultTree()
	if cliArgs.Config != "" {
		tree = postprocess.Resolve(cliArgs.Config, cliArgs.Lang, cliArgs.VoiceID, func(format string, args ...any) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		})
	}
	chain := postprocess.ChainFromTree(tree)

	store, err := workarea.ForOutput(cliArgs.Output)
	if err != nil {
		return err
	}

	opts := assemble.Options{
		Notes:      noteList,
		SlidesDir:  cliArgs.SlidesDir,
		AudioDir:   cliArgs.AudioDir,
		OutputPath: cliArgs.Output,
		Store:      store,
		Runner:     &ffmpeg.ExecRunner{Timeout: cliArgs.Timeout},
		Chain:      chain,
		Transition: cliArgs.Transition,
	}

	if cliArgs.Check {
		return runCheck(opts, warnings, cliArgs.Plain)
	}

	var report reportFunc
	if cliArgs.Logs {
		startTime := time.Now()
		chainDesc := chain.BuildChain(postprocess.ChainOptions{IncludeLimiter: true})
		report = func(result *assemble.Result) error {
			return logging.GenerateReport(logging.ReportData{
				NotesPath: cliArgs.Notes,
				SlidesDir: cliArgs.SlidesDir,
				AudioDir:  cliArgs.AudioDir,
				StartTime: startTime,
				EndTime:   time.Now(),
				Result:    result,
				Chain:     chainDesc,
			})
		}
	}

	if cliArgs.Plain {
		return runPlain(opts, warnings, report)
	}
	return runTUI(opts, warnings, report)
}

// reportFunc writes the post-run report; nil when --logs is not set.
type reportFunc func(*assemble.Result) error

// runTUI drives the pipeline behind the Bubbletea interface, forwarding
// pipeline events as messages.
func runTUI(opts assemble.Options, warnings []string, report reportFunc) error {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", cli.KeyStyle.Render("config:"), w)
	}

	model := ui.NewModel(opts.OutputPath)
	p := tea.NewProgram(model)

	opts.Progress = func(e assemble.Event) {
		p.Send(ui.EventMsg(e))
	}

	go func() {
		pipeline, err := assemble.New(opts)
		if err != nil {
			p.Send(ui.RunCompleteMsg{Err: err})
			return
		}
		result, err := pipeline.Run(context.Background())
		p.Send(ui.RunCompleteMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if m, ok := final.(ui.Model); ok {
		if m.Err != nil {
			return m.Err
		}
		if report != nil && m.Result != nil {
			if err := report(m.Result); err != nil {
				fmt.Fprintf(os.Stderr, "report: %v\n", err)
			}
		}
	}
	return nil
}

// runPlain prints one line per pipeline event, for logs and non-interactive
// shells.
func runPlain(opts assemble.Options, warnings []string, report reportFunc) error {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "config: %s\n", w)
	}

	opts.Progress = func(e assemble.Event) {
		switch e.Kind {
		case assemble.KindStart:
			fmt.Printf("[%s] %s\n", e.Stage, e.Message)
		case assemble.KindNote:
			fmt.Printf("[%s]   %s\n", e.Stage, e.Message)
		case assemble.KindDone:
			fmt.Printf("[%s] done: %s\n", e.Stage, e.Message)
		}
	}

	pipeline, err := assemble.New(opts)
	if err != nil {
		return err
	}
	result, err := pipeline.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Print(ui.RenderResultSummary(result))
	if report != nil {
		if err := report(result); err != nil {
			fmt.Fprintf(os.Stderr, "report: %v\n", err)
		}
	}
	return nil
}

// runCheck runs the dry-run report instead of the pipeline.
func runCheck(opts assemble.Options, warnings []string, plain bool) error {
	pipeline, err := assemble.New(opts)
	if err != nil {
		return err
	}

	if plain {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "config: %s\n", w)
		}
		report, err := pipeline.Check(context.Background())
		if err != nil {
			return err
		}
		fmt.Print(ui.RenderCheckReport(report))
		return nil
	}

	model := ui.NewCheckModel(opts.OutputPath)
	p := tea.NewProgram(model)
	go func() {
		report, err := pipeline.Check(context.Background())
		p.Send(ui.CheckCompleteMsg{Report: report, Error: err})
	}()
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if m, ok := final.(ui.CheckModel); ok && m.Error != nil {
		return m.Error
	}
	return nil
}
