// Package render turns split source files into markdown documents that link
// to every module they transitively depend on.
package render

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/phobologic/litdoc/internal/depgraph"
	"github.com/phobologic/litdoc/internal/lang"
	"github.com/phobologic/litdoc/internal/model"
)

// DocPath returns the output document path for a source path.
func DocPath(sourcePath string) string {
	return sourcePath + ".md"
}

// Markdown renders f as a markdown document. Prose is emitted as-is, code is
// fenced, and a Dependencies section lists the transitive closure of f's
// module from g.
func Markdown(g *depgraph.Graph, f model.SourceFile) string {
	var b strings.Builder

	fence := f.Language
	if l, ok := lang.Languages[f.Language]; ok {
		fence = l.Fence
	}

	fmt.Fprintf(&b, "<!-- generated by litdoc from %s -->\n\n", f.Path)

	for _, bl := range f.Blocks {
		switch bl.Kind {
		case model.Markdown:
			b.WriteString(bl.Text)
			b.WriteString("\n\n")
		case model.Code:
			ticks := codeFence(bl.Text)
			fmt.Fprintf(&b, "%s%s\n%s\n%s\n\n", ticks, fence, bl.Text, ticks)
		}
	}

	deps := depgraph.Sorted(g.AllDependencies(f.ModuleID))
	if len(deps) > 0 {
		from := path.Dir(DocPath(f.Path))
		b.WriteString("## Dependencies\n\n")
		for _, m := range deps {
			fmt.Fprintf(&b, "- [`%s`](%s)\n", m.ID, relLink(from, DocPath(m.Origin)))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// codeFence returns a backtick fence longer than any backtick run in code.
func codeFence(code string) string {
	longest, run := 0, 0
	for _, r := range code {
		if r == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// relLink returns target relative to the directory from, both slash-separated
// and repo-relative.
func relLink(from, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// Write renders every file into outDir, mirroring the source layout.
func Write(outDir string, g *depgraph.Graph, files []model.SourceFile) error {
	for _, f := range files {
		dest := filepath.Join(outDir, filepath.FromSlash(DocPath(f.Path)))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		if err := os.WriteFile(dest, []byte(Markdown(g, f)), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
	}
	return nil
}

// Preview renders markdown for a terminal using the named glamour style
// ("dark", "light", "notty", ...).
func Preview(markdown, style string) (string, error) {
	out, err := glamour.Render(markdown, style)
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}
