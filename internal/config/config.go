// Package config loads litdoc settings from an optional litdoc.yaml file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/litdoc/internal/lang"
)

// FileName is the config file looked up in the repository root.
const FileName = "litdoc.yaml"

const defaultMaxFileSize = 1_000_000 // 1 MB

// Config holds generation settings. Command-line flags override file values.
type Config struct {
	Out         string   `yaml:"out"`
	Languages   []string `yaml:"languages,omitempty"`
	Exclude     []string `yaml:"exclude,omitempty"`
	MaxFileSize int      `yaml:"max_file_size"`
	SkipTests   bool     `yaml:"skip_tests"`

	// GoModule overrides the module path read from go.mod.
	GoModule string `yaml:"go_module,omitempty"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Out:         "docs",
		MaxFileSize: defaultMaxFileSize,
	}
}

// Load reads path on top of the defaults. A missing file is an error only
// when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Out == "" {
		return errors.New("out must not be empty")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	for _, name := range c.Languages {
		if _, ok := lang.Languages[name]; !ok {
			return fmt.Errorf("unsupported language %q", name)
		}
	}
	return nil
}

// Marshal encodes c as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// Project builds the import-resolution context for root, reading the Go
// module path from root/go.mod unless the config overrides it.
func (c Config) Project(root string) lang.Project {
	if c.GoModule != "" {
		return lang.Project{GoModule: c.GoModule}
	}
	return lang.Project{GoModule: GoModulePath(root)}
}

// GoModulePath returns the module path declared in root/go.mod, or "".
func GoModulePath(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}
