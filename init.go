package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/litdoc/internal/config"
)

const (
	sentinelStart = "# litdoc:start"
	sentinelEnd   = "# litdoc:end"
)

// runInit implements the `litdoc init` subcommand, which writes (or updates)
// a default settings block in a litdoc.yaml file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("litdoc init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: litdoc init [flags] [path-to-litdoc.yaml]

Write the default litdoc settings to a config file. The settings are wrapped in
sentinel comments so they can be refreshed in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

path-to-litdoc.yaml defaults to ./%s.

Flags:
`, config.FileName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	section, err := generateSection()
	if err != nil {
		return err
	}

	// --dry-run with no path: just print the section itself.
	if dryRun && fs.NArg() == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := config.FileName
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote litdoc settings to %s\n", path)
	return nil
}

// generateSection returns the sentinel-wrapped default settings.
func generateSection() (string, error) {
	data, err := config.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("encoding defaults: %w", err)
	}

	body := `# litdoc settings. Command-line flags override these values;
# run ` + "`litdoc --help`" + ` for the full list.
#
# exclude:            # gitignore-style patterns, relative to the repo root
#   - vendor/
# languages: [go, python, ruby, typescript, javascript, typst]
# go_module: example.com/override   # defaults to the path in go.mod
` + strings.TrimRight(string(data), "\n")

	return sentinelStart + "\n" + body + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
