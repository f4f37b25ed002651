// Package lang provides a language registry mapping file extensions to comment
// conventions, import extraction rules, and module naming.
package lang

import (
	"context"
	"embed"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Project carries repository-wide facts that import resolution needs.
type Project struct {
	GoModule string // module path from go.mod, "" if none
}

// Language holds the splitting and import rules for a supported language.
type Language struct {
	Name       string
	Extensions []string
	Fence      string // info string for fenced code blocks

	// Prose matches one prose region. Submatch 1 is the markdown text.
	Prose *regexp.Regexp

	// ProseSpans locates prose regions from the syntax tree. When set it is
	// used instead of Prose.
	ProseSpans func(source []byte) []ProseSpan

	// CleanProse strips comment decoration from a prose submatch.
	CleanProse func(string) string

	// ImportPattern extracts raw import strings (submatch 1) for languages
	// without a tree-sitter grammar.
	ImportPattern *regexp.Regexp

	// ResolveImport maps a raw import string found in fromPath to a module
	// id. It returns "" when the import cannot name a module in the repo.
	ResolveImport func(p Project, fromPath, raw string) string

	// ModuleID returns the module id for a repo-relative file path.
	ModuleID func(filePath string) string

	lang      *sitter.Language
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
}

// ProseSpan locates one prose region by byte offsets. The span covers the
// delimiters and the blank rest of the closing line; Text is the raw content
// between the delimiters.
type ProseSpan struct {
	Start, End int
	Text       string
}

// HasGrammar reports whether imports are extracted with tree-sitter.
func (l *Language) HasGrammar() bool {
	return l.lang != nil
}

// GetLanguage returns the tree-sitter Language pointer, or nil.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	if l.lang == nil {
		return nil
	}
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetImportQuery returns the compiled tree-sitter query (safe to share across goroutines).
func (l *Language) GetImportQuery() (*sitter.Query, error) {
	if l.lang == nil {
		return nil, nil
	}
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// TrimExt removes the extension from a slash-separated path.
func TrimExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

// ResolveRelative joins a "./" or "../" import onto the directory of
// fromPath. It returns "" for non-relative imports and for imports that
// climb out of the repo root.
func ResolveRelative(fromPath, raw string) string {
	if !strings.HasPrefix(raw, "./") && !strings.HasPrefix(raw, "../") {
		return ""
	}
	return joinInRepo(path.Dir(fromPath), raw)
}

func joinInRepo(dir, rel string) string {
	joined := path.Clean(path.Join(dir, rel))
	if escapesRepo(joined) {
		return ""
	}
	return TrimExt(joined)
}

func escapesRepo(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../")
}

// topLevelProse returns a ProseSpans function that parses source with
// grammar and keeps the top-level nodes, starting at column 0, for which
// prose returns true. A node followed by anything but blanks on its closing
// line stays code.
func topLevelProse(grammar *sitter.Language, prose func(n *sitter.Node, source []byte) (string, bool)) func([]byte) []ProseSpan {
	return func(source []byte) []ProseSpan {
		parser := sitter.NewParser()
		parser.SetLanguage(grammar)
		tree, err := parser.ParseCtx(context.Background(), nil, source)
		if err != nil {
			return nil
		}
		defer tree.Close()

		root := tree.RootNode()
		var spans []ProseSpan
		for i := 0; i < int(root.ChildCount()); i++ {
			n := root.Child(i)
			if n.StartPoint().Column != 0 {
				continue
			}
			text, ok := prose(n, source)
			if !ok {
				continue
			}
			end, ok := restOfLine(source, int(n.EndByte()))
			if !ok {
				continue
			}
			spans = append(spans, ProseSpan{Start: int(n.StartByte()), End: end, Text: text})
		}
		return spans
	}
}

// restOfLine advances end over trailing blanks and one line break. It
// reports false when anything else follows on the line.
func restOfLine(source []byte, end int) (int, bool) {
	for end < len(source) && (source[end] == ' ' || source[end] == '\t') {
		end++
	}
	switch {
	case end == len(source):
		return end, true
	case source[end] == '\n':
		return end + 1, true
	case source[end] == '\r' && end+1 < len(source) && source[end+1] == '\n':
		return end + 2, true
	}
	return end, false
}

func nodeText(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

var starPrefix = regexp.MustCompile(`(?m)^[ \t]*\* ?`)

// CleanStarred strips the leading " * " decoration used inside block
// comments when every non-blank line carries it, then trims the result.
func CleanStarred(s string) string {
	lines := strings.Split(s, "\n")
	starred := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "*") {
			starred = false
			break
		}
	}
	if starred {
		s = starPrefix.ReplaceAllString(s, "")
	}
	return Dedent(s)
}

// Dedent removes the longest common leading whitespace from the non-blank
// lines of s and trims surrounding blank lines.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = indent
			first = false
			continue
		}
		for !strings.HasPrefix(indent, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n \t")
}
