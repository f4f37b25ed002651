package lang

import (
	"path"
	"regexp"
	"strings"
)

func init() {
	Languages["typst"] = &Language{
		Name:          "typst",
		Extensions:    []string{".typ"},
		Fence:         "typst",
		Prose:         regexp.MustCompile(`(?s)/\*(.*?)\*/[ \t]*\n?`),
		CleanProse:    CleanStarred,
		ImportPattern: regexp.MustCompile(`(?m)^[ \t]*#(?:import|include)[ \t]+"([^"\n]+)"`),
		ResolveImport: typstResolveImport,
		ModuleID:      TrimExt,
	}
}

// typstResolveImport treats paths as relative to the importing file, or to
// the project root when they start with "/". Package imports ("@preview/...")
// are external.
func typstResolveImport(_ Project, fromPath, raw string) string {
	switch {
	case raw == "" || strings.HasPrefix(raw, "@"):
		return ""
	case strings.HasPrefix(raw, "/"):
		return joinInRepo(".", strings.TrimPrefix(raw, "/"))
	default:
		return joinInRepo(path.Dir(fromPath), raw)
	}
}
