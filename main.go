// litdoc generates literate documentation from source files, linking each
// document to the modules it depends on.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/phobologic/litdoc/internal/build"
	"github.com/phobologic/litdoc/internal/config"
	"github.com/phobologic/litdoc/internal/depgraph"
	"github.com/phobologic/litdoc/internal/discover"
	"github.com/phobologic/litdoc/internal/model"
	"github.com/phobologic/litdoc/internal/render"
	"github.com/phobologic/litdoc/internal/toon"
)

var version = "dev"

// IndexFileName is written into the output directory next to the documents.
const IndexFileName = "index.toon"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "init" {
		return runInit(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("litdoc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		out         string
		langs       string
		configPath  string
		maxFileSize int
		preview     string
		style       string
		skipTests   bool
		verbose     bool
		showVersion bool
	)

	fs.StringVar(&out, "o", "", "output directory (default from config, else docs)")
	fs.StringVar(&out, "out", "", "output directory (default from config, else docs)")
	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.StringVar(&configPath, "config", "", "config file path (default <root>/"+config.FileName+" if present)")
	fs.IntVar(&maxFileSize, "max-file-size", 0, "skip files larger than this many bytes")
	fs.StringVar(&preview, "preview", "", "render the document for one source file to the terminal instead of writing")
	fs.StringVar(&style, "style", "dark", "glamour style for -preview (dark, light, notty)")
	fs.BoolVar(&skipTests, "skip-tests", false, "leave out test files")
	fs.BoolVar(&verbose, "v", false, "log every parsed file")
	fs.BoolVar(&verbose, "verbose", false, "log every parsed file")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "litdoc %s\n", version)
		return nil
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "litdoc"})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	required := configPath != ""
	if !required {
		configPath = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(configPath, required)
	if err != nil {
		return err
	}

	// Flags override the config file.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["o"] || set["out"] {
		if cfg.Out, err = filepath.Abs(out); err != nil {
			return fmt.Errorf("resolving output: %w", err)
		}
	}
	if set["l"] || set["langs"] {
		cfg.Languages = nil
		for _, name := range strings.Split(langs, ",") {
			cfg.Languages = append(cfg.Languages, strings.TrimSpace(name))
		}
	}
	if set["max-file-size"] {
		cfg.MaxFileSize = maxFileSize
	}
	if set["skip-tests"] {
		cfg.SkipTests = skipTests
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := discover.Files(root, discover.Options{
		Languages: cfg.Languages,
		Exclude:   cfg.Exclude,
		SkipTests: cfg.SkipTests,
	})
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no documentable files found")
	}

	loaded, err := build.Load(ctx, root, files, build.Options{
		Project:     cfg.Project(root),
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("loading files: %w", err)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("no files could be read")
	}

	g := depgraph.New()
	build.Register(g, loaded)
	logger.Debug("graph built", "modules", g.Len(), "files", len(loaded))

	if preview != "" {
		return runPreview(g, loaded, preview, style, stdout)
	}

	outDir := cfg.Out
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	if err := render.Write(outDir, g, loaded); err != nil {
		return err
	}

	index := toon.Encode(build.Index(filepath.Base(root), g, loaded))
	indexPath := filepath.Join(outDir, IndexFileName)
	if err := os.WriteFile(indexPath, []byte(index+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", indexPath, err)
	}

	logger.Info("wrote documentation", "files", len(loaded), "modules", g.Len(), "out", outDir)
	return nil
}

func runPreview(g *depgraph.Graph, files []model.SourceFile, target, style string, stdout io.Writer) error {
	target = filepath.ToSlash(filepath.Clean(target))
	for _, f := range files {
		if f.Path != target {
			continue
		}
		out, err := render.Preview(render.Markdown(g, f), style)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(stdout, out)
		return nil
	}
	return fmt.Errorf("%s: not a documented source file", target)
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-o": true, "--o": true,
	"-out": true, "--out": true,
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-config": true, "--config": true,
	"-max-file-size": true, "--max-file-size": true,
	"-preview": true, "--preview": true,
	"-style": true, "--style": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
