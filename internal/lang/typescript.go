package lang

import "regexp"

var (
	jsDocProse = regexp.MustCompile(`(?s)/\*\*(.*?)\*/[ \t]*\n?`)
	jsImport   = regexp.MustCompile(`(?m)(?:^[ \t]*import[ \t]+|\bfrom[ \t]*|\b(?:require|import)[ \t]*\([ \t]*)['"]([^'"\n]+)['"]`)
)

func init() {
	Languages["typescript"] = &Language{
		Name:          "typescript",
		Extensions:    []string{".ts", ".tsx", ".mts", ".cts"},
		Fence:         "typescript",
		Prose:         jsDocProse,
		CleanProse:    CleanStarred,
		ImportPattern: jsImport,
		ResolveImport: jsResolveImport,
		ModuleID:      TrimExt,
	}
	Languages["javascript"] = &Language{
		Name:          "javascript",
		Extensions:    []string{".js", ".jsx", ".mjs", ".cjs"},
		Fence:         "javascript",
		Prose:         jsDocProse,
		CleanProse:    CleanStarred,
		ImportPattern: jsImport,
		ResolveImport: jsResolveImport,
		ModuleID:      TrimExt,
	}
}

// jsResolveImport only resolves relative specifiers; bare specifiers name
// packages outside the repo.
func jsResolveImport(_ Project, fromPath, raw string) string {
	return ResolveRelative(fromPath, raw)
}
