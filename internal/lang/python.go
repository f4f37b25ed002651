package lang

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	l := &Language{
		Name:          "python",
		Extensions:    []string{".py"},
		Fence:         "python",
		CleanProse:    Dedent,
		ResolveImport: pythonResolveImport,
		ModuleID:      pythonModuleID,
		lang:          python.GetLanguage(),
	}
	l.ProseSpans = topLevelProse(l.lang, pythonDocstring)
	Languages["python"] = l
}

// pythonDocstring accepts module-level statements that consist of a single
// triple-quoted string. Strings assigned or passed anywhere stay code.
func pythonDocstring(n *sitter.Node, source []byte) (string, bool) {
	if n.Type() != "expression_statement" || n.NamedChildCount() != 1 {
		return "", false
	}
	s := n.NamedChild(0)
	if s.Type() != "string" {
		return "", false
	}
	text := nodeText(s, source)
	if len(text) < 6 || !strings.HasPrefix(text, `"""`) || !strings.HasSuffix(text, `"""`) {
		return "", false
	}
	return text[3 : len(text)-3], true
}

// pythonModuleID maps pkg/mod.py to "pkg/mod" and pkg/__init__.py to "pkg".
func pythonModuleID(filePath string) string {
	if path.Base(filePath) == "__init__.py" {
		return path.Dir(filePath)
	}
	return TrimExt(filePath)
}

// pythonResolveImport maps dotted imports to paths. Leading dots make the
// import relative to the importing file's package, one level up per extra
// dot; a bare "." names that package itself.
func pythonResolveImport(_ Project, fromPath, raw string) string {
	rest := strings.TrimLeft(raw, ".")
	dots := len(raw) - len(rest)
	rest = strings.ReplaceAll(rest, ".", "/")
	if dots == 0 {
		return rest
	}
	up := strings.Repeat("../", dots-1)
	joined := path.Clean(path.Join(path.Dir(fromPath), up, rest))
	if joined == "." || escapesRepo(joined) {
		return ""
	}
	return joined
}
