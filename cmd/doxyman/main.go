package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doxyman/internal/config"
	"git.home.luguber.info/inful/doxyman/internal/doxygen"
	"git.home.luguber.info/inful/doxyman/internal/header"
	"git.home.luguber.info/inful/doxyman/internal/logfields"
	"git.home.luguber.info/inful/doxyman/internal/man"
	"git.home.luguber.info/inful/doxyman/internal/version"
	"git.home.luguber.info/inful/doxyman/internal/watch"
)

// generateFlags are shared between the generate and watch commands.
// Every flag overrides the corresponding config file value.
type generateFlags struct {
	XMLDir             string `short:"d" help:"Directory containing the Doxygen XML files" placeholder:"DIR"`
	OutputDir          string `short:"o" help:"Write all man pages to this directory" placeholder:"DIR"`
	HeaderSrcDir       string `short:"O" help:"Directory containing the original header files" placeholder:"DIR"`
	HeaderFile         string `short:"I" help:"Include file name (default taken from the XML)"`
	HeaderPrefix       string `short:"i" help:"Prefix for the include file, e.g. qb/"`
	Section            string `short:"s" help:"Write man pages into this section"`
	PackageName        string `short:"p" help:"Name of the package for these man pages"`
	Company            string `help:"Company name used in the synthesized copyright line"`
	HeaderTitle        string `short:"H" help:"Header text printed at the top of the man pages"`
	ManpageDate        string `short:"D" help:"Date printed at the top of the man pages"`
	ManpageYear        int    `short:"Y" help:"Year printed at the end of the copyright line"`
	StartYear          int    `short:"S" help:"Start year printed at the end of the copyright line"`
	PrintASCII         bool   `short:"a" help:"Print an ASCII dump of the man pages to stdout"`
	PrintMan           bool   `short:"m" help:"Write man page files to the output directory"`
	PrintParams        bool   `short:"P" help:"Print the PARAMS section"`
	PrintGeneral       bool   `short:"g" help:"Print a general man page for the whole header file"`
	UseHeaderCopyright bool   `help:"Use the copyright line from the header file when one can be found"`
	Quiet              bool   `short:"q" help:"Run quietly, no progress info printed"`

	XMLFiles []string `arg:"" name:"xml-file" help:"Doxygen compound XML file(s) to process"`
}

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"doxyman.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Generate generateFlags `cmd:"" help:"Generate man pages from Doxygen compound XML"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Watch struct {
		generateFlags
		Debounce time.Duration `default:"500ms" help:"Quiet period before regenerating"`
	} `cmd:"" help:"Regenerate man pages whenever the XML directory changes"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	switch ctx.Command() {
	case "generate <xml-file>":
		opts, err := loadOptions(&CLI.Generate)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runGenerate(opts, CLI.Generate.XMLFiles); err != nil {
			slog.Error("Generation failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration file written", logfields.Path(CLI.Config))
	case "watch <xml-file>":
		opts, err := loadOptions(&CLI.Watch.generateFlags)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runWatch(opts, CLI.Watch.XMLFiles, CLI.Watch.Debounce); err != nil {
			slog.Error("Watch failed", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("doxyman %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
	}
}

// loadOptions loads the config file and applies flag overrides on top.
func loadOptions(f *generateFlags) (*config.Options, error) {
	opts, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	mergeFlags(opts, f)
	if opts.Quiet && !CLI.Verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// mergeFlags copies every explicitly set flag over the loaded options.
// Boolean toggles only switch on; the config file is the place to turn
// modes off.
func mergeFlags(opts *config.Options, f *generateFlags) {
	if f.XMLDir != "" {
		opts.XMLDir = f.XMLDir
	}
	if f.OutputDir != "" {
		opts.OutputDir = f.OutputDir
	}
	if f.HeaderSrcDir != "" {
		opts.HeaderSrcDir = f.HeaderSrcDir
	}
	if f.HeaderFile != "" {
		opts.HeaderFile = f.HeaderFile
	}
	if f.HeaderPrefix != "" {
		opts.HeaderPrefix = f.HeaderPrefix
	}
	if f.Section != "" {
		opts.Section = f.Section
	}
	if f.PackageName != "" {
		opts.PackageName = f.PackageName
	}
	if f.Company != "" {
		opts.Company = f.Company
	}
	if f.HeaderTitle != "" {
		opts.HeaderTitle = f.HeaderTitle
	}
	if f.ManpageDate != "" {
		opts.ManpageDate = f.ManpageDate
	}
	if f.ManpageYear != 0 {
		opts.ManpageYear = f.ManpageYear
	}
	if f.StartYear != 0 {
		opts.StartYear = f.StartYear
	}
	if f.PrintASCII {
		opts.PrintASCII = true
	}
	if f.PrintMan {
		opts.PrintMan = true
	}
	if f.PrintParams {
		opts.PrintParams = true
	}
	if f.PrintGeneral {
		opts.PrintGeneral = true
	}
	if f.UseHeaderCopyright {
		opts.UseHeaderCopyright = true
	}
	if f.Quiet {
		opts.Quiet = true
	}
}

// runGenerate processes each input file to completion before the next
// one begins. A failed file aborts only itself.
func runGenerate(opts *config.Options, xmlFiles []string) error {
	failures := 0
	for _, name := range xmlFiles {
		if err := processFile(opts, name); err != nil {
			slog.Error("Failed to process XML file", logfields.File(name), logfields.Error(err))
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d input files failed", failures, len(xmlFiles))
	}
	return nil
}

// processFile runs the full pipeline for one input file: pass 1 over the
// main compound file, pass 2 over the companion structure files, then
// rendering. All state is local to this call.
func processFile(opts *config.Options, name string) error {
	path := name
	if filepath.Dir(name) == "." {
		path = filepath.Join(opts.XMLDir, name)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open XML file: %w", err)
	}
	defer f.Close()

	idx := doxygen.NewIndex()
	if err := idx.ScanMain(f); err != nil {
		return err
	}
	slog.Info("Scanned XML file", logfields.File(path), logfields.Count(len(idx.Functions)))

	idx.ResolveStructures(opts.XMLDir)

	runOpts := *opts
	if runOpts.HeaderFile == "unknown.h" && idx.HeaderName() != "" {
		runOpts.HeaderFile = idx.HeaderName()
	}

	copyright := header.Fallback(opts.StartYear, opts.ManpageYear, opts.Company)
	if opts.UseHeaderCopyright {
		copyright = header.Line(
			filepath.Join(opts.HeaderSrcDir, runOpts.HeaderFile),
			opts.StartYear, opts.ManpageYear, opts.Company)
	}

	r := man.NewRenderer(&runOpts, copyright)
	structures := idx.ResolvedStructures()

	pageFailures := 0
	for _, fn := range idx.Functions {
		if opts.PrintASCII {
			r.ASCIIDump(os.Stdout, fn, structures, idx.Functions)
		}
		if opts.PrintMan {
			if err := r.WritePage(fn, structures, idx.Functions); err != nil {
				// Skip-and-continue: a page that cannot be written does
				// not abort the remaining pages.
				slog.Error("Failed to write man page", logfields.Function(fn.Name), logfields.Error(err))
				pageFailures++
				continue
			}
			slog.Debug("Wrote man page", logfields.Path(r.PagePath(fn)))
		}
	}
	if opts.PrintGeneral {
		gen := idx.General
		if opts.PrintASCII {
			r.ASCIIDump(os.Stdout, gen, structures, idx.Functions)
		}
		if opts.PrintMan {
			if err := r.WritePage(gen, structures, idx.Functions); err != nil {
				slog.Error("Failed to write man page", logfields.Function(gen.Name), logfields.Error(err))
				pageFailures++
			}
		}
	}
	if pageFailures > 0 {
		return fmt.Errorf("%d man pages could not be written", pageFailures)
	}
	return nil
}

func runWatch(opts *config.Options, xmlFiles []string, debounce time.Duration) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runGenerate(opts, xmlFiles); err != nil {
		slog.Error("Initial generation failed", logfields.Error(err))
	}

	slog.Info("Watching for changes", logfields.Path(opts.XMLDir))
	return watch.Watch(ctx, []string{opts.XMLDir}, debounce, func() error {
		return runGenerate(opts, xmlFiles)
	})
}
