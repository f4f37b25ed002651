package lang

import (
	"regexp"

	"github.com/smacker/go-tree-sitter/ruby"
)

func init() {
	Languages["ruby"] = &Language{
		Name:          "ruby",
		Extensions:    []string{".rb"},
		Fence:         "ruby",
		Prose:         regexp.MustCompile(`(?ms)^=begin[^\n]*\n(.*?)^=end[^\n]*\n?`),
		CleanProse:    Dedent,
		ResolveImport: rubyResolveImport,
		ModuleID:      TrimExt,
		lang:          ruby.GetLanguage(),
	}
}

// rubyResolveImport resolves require_relative paths (delivered with a "./"
// prefix) against the requiring file and plain requires against lib/.
func rubyResolveImport(_ Project, fromPath, raw string) string {
	if id := ResolveRelative(fromPath, raw); id != "" {
		return id
	}
	if raw == "" || raw[0] == '.' || raw[0] == '/' {
		return ""
	}
	return TrimExt("lib/" + raw)
}
