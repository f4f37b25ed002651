package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingOptional(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), FileName), false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Out != "docs" || cfg.MaxFileSize != defaultMaxFileSize {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true); err == nil {
		t.Fatal("expected error for missing required config")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), FileName, `out: site
languages: [go, typst]
exclude:
  - vendor/
skip_tests: true
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Out != "site" {
		t.Errorf("out = %q", cfg.Out)
	}
	if !slices.Equal(cfg.Languages, []string{"go", "typst"}) {
		t.Errorf("languages = %v", cfg.Languages)
	}
	if !slices.Equal(cfg.Exclude, []string{"vendor/"}) {
		t.Errorf("exclude = %v", cfg.Exclude)
	}
	if !cfg.SkipTests {
		t.Error("skip_tests not applied")
	}
	if cfg.MaxFileSize != defaultMaxFileSize {
		t.Errorf("max_file_size default lost: %d", cfg.MaxFileSize)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "out: [", "parsing"},
		{"unknown language", "languages: [cobol]", "unsupported language"},
		{"zero size", "max_file_size: 0", "max_file_size"},
		{"empty out", `out: ""`, "out must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), FileName, tt.content)
			_, err := Load(path, true)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), "out: docs") {
		t.Errorf("unexpected yaml:\n%s", data)
	}
}

func TestProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/proj\n\ngo 1.22\n")

	if got := Default().Project(dir).GoModule; got != "example.com/proj" {
		t.Errorf("GoModule = %q", got)
	}

	cfg := Default()
	cfg.GoModule = "override.example/x"
	if got := cfg.Project(dir).GoModule; got != "override.example/x" {
		t.Errorf("GoModule = %q", got)
	}

	if got := GoModulePath(t.TempDir()); got != "" {
		t.Errorf("GoModulePath without go.mod = %q", got)
	}
}
