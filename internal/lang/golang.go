package lang

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	l := &Language{
		Name:          "go",
		Extensions:    []string{".go"},
		Fence:         "go",
		CleanProse:    CleanStarred,
		ResolveImport: goResolveImport,
		ModuleID:      goModuleID,
		lang:          golang.GetLanguage(),
	}
	l.ProseSpans = topLevelProse(l.lang, goBlockComment)
	Languages["go"] = l
}

// goBlockComment accepts /* */ comments between top-level declarations.
// Comment markers inside string literals never form a comment node.
func goBlockComment(n *sitter.Node, source []byte) (string, bool) {
	if n.Type() != "comment" {
		return "", false
	}
	text := nodeText(n, source)
	if len(text) < 4 || !strings.HasPrefix(text, "/*") {
		return "", false
	}
	return text[2 : len(text)-2], true
}

// goModuleID names a Go file by its package directory, so every file of a
// package shares one module.
func goModuleID(filePath string) string {
	return path.Dir(filePath)
}

// goResolveImport maps an import path inside the project's own module to a
// package directory. Imports of other modules are not repo modules.
func goResolveImport(p Project, _ string, raw string) string {
	raw = strings.Trim(raw, "\"`")
	if p.GoModule == "" {
		return ""
	}
	if raw == p.GoModule {
		return "."
	}
	if rest, ok := strings.CutPrefix(raw, p.GoModule+"/"); ok {
		return rest
	}
	return ""
}
