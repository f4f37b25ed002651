// Package parse splits source files into prose and code blocks and extracts
// their import references.
package parse

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/litdoc/internal/lang"
	"github.com/phobologic/litdoc/internal/model"
)

const (
	captureImport         = "reference.import"
	captureImportRelative = "reference.import.relative"
)

// File splits source into blocks and resolves its imports to module ids.
// parser and query may be nil for languages without a grammar.
// filePath must be the slash-separated repo-relative path.
func File(l *lang.Language, proj lang.Project, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) model.SourceFile {
	sf := model.SourceFile{
		Path:     filePath,
		Language: l.Name,
		ModuleID: l.ModuleID(filePath),
		Blocks:   Blocks(l, string(source)),
	}
	for _, raw := range ExtractImports(l, parser, query, source) {
		if id := l.ResolveImport(proj, filePath, raw); id != "" {
			sf.Imports = append(sf.Imports, id)
		}
	}
	return sf
}

// Scan walks text and reports each match of re to onMatch and each stretch
// of text between matches to onCode. Both callbacks receive the 1-based line
// the piece starts on.
func Scan(text string, re *regexp.Regexp, onMatch func(submatches []string, line int), onCode func(code string, line int)) {
	pos, line := 0, 1
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > pos {
			onCode(text[pos:loc[0]], line)
			line += strings.Count(text[pos:loc[0]], "\n")
		}
		sub := make([]string, len(loc)/2)
		for i := range sub {
			if loc[2*i] >= 0 {
				sub[i] = text[loc[2*i]:loc[2*i+1]]
			}
		}
		onMatch(sub, line)
		line += strings.Count(text[loc[0]:loc[1]], "\n")
		pos = loc[1]
	}
	if pos < len(text) {
		onCode(text[pos:], line)
	}
}

// Blocks splits text into an ordered list of markdown and code blocks using
// the language's prose pattern. Blank blocks are dropped and neighbouring
// blocks of the same kind are merged.
func Blocks(l *lang.Language, text string) []model.Block {
	var blocks []model.Block

	open := func(kind model.BlockKind, body string, line int) {
		if strings.TrimSpace(body) == "" {
			return
		}
		if n := len(blocks); n > 0 && blocks[n-1].Kind == kind {
			sep := "\n"
			if kind == model.Markdown {
				sep = "\n\n"
			}
			blocks[n-1].Text += sep + body
			return
		}
		blocks = append(blocks, model.Block{Kind: kind, Text: body, Line: line})
	}

	onProse := func(prose string, line int) {
		open(model.Markdown, l.CleanProse(prose), line)
	}
	onCode := func(code string, line int) {
		trimmed, skipped := trimBlankLines(code)
		open(model.Code, trimmed, line+skipped)
	}

	if l.ProseSpans != nil {
		walkSpans(text, l.ProseSpans([]byte(text)), onProse, onCode)
	} else {
		Scan(text, l.Prose, func(sub []string, line int) { onProse(sub[1], line) }, onCode)
	}

	return blocks
}

// walkSpans is Scan for prose regions located by a syntax tree. Spans must
// be ordered; overlapping spans are ignored.
func walkSpans(text string, spans []lang.ProseSpan, onProse func(prose string, line int), onCode func(code string, line int)) {
	pos, line := 0, 1
	for _, s := range spans {
		if s.Start < pos || s.End > len(text) {
			continue
		}
		if s.Start > pos {
			onCode(text[pos:s.Start], line)
			line += strings.Count(text[pos:s.Start], "\n")
		}
		onProse(s.Text, line)
		line += strings.Count(text[s.Start:s.End], "\n")
		pos = s.End
	}
	if pos < len(text) {
		onCode(text[pos:], line)
	}
}

// trimBlankLines removes leading and trailing blank lines, keeping the
// indentation of the first non-blank line. It also reports how many lines
// were removed from the front.
func trimBlankLines(s string) (string, int) {
	skipped := 0
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			break
		}
		s = s[i+1:]
		skipped++
	}
	return strings.TrimRight(s, " \t\r\n"), skipped
}

// ExtractImports returns raw import strings in order of appearance. It uses
// the tree-sitter query when one is given, and the language's ImportPattern
// otherwise.
func ExtractImports(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte) []string {
	if len(source) == 0 {
		return nil
	}
	if parser == nil || query == nil {
		return matchImports(l.ImportPattern, source)
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var imports []string

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, moduleNode *sitter.Node
		var captureName string

		for _, c := range match.Captures {
			switch cname := query.CaptureNameForId(c.Index); cname {
			case "name":
				nameNode = c.Node
			case "module":
				moduleNode = c.Node
			case captureImport, captureImportRelative:
				captureName = cname
			}
		}

		if nameNode == nil || captureName == "" {
			continue
		}

		raw := nodeText(nameNode, source)
		if moduleNode != nil {
			raw = joinDotted(nodeText(moduleNode, source), raw)
		}
		if captureName == captureImportRelative && !strings.HasPrefix(raw, ".") {
			raw = "./" + raw
		}
		imports = append(imports, raw)
	}

	return imports
}

// joinDotted names an item imported from a module ("from pkg import mod"
// gives "pkg.mod", "from . import mod" gives ".mod").
func joinDotted(module, name string) string {
	if strings.HasSuffix(module, ".") {
		return module + name
	}
	return module + "." + name
}

func matchImports(re *regexp.Regexp, source []byte) []string {
	if re == nil {
		return nil
	}
	var imports []string
	for _, m := range re.FindAllSubmatch(source, -1) {
		imports = append(imports, string(m[1]))
	}
	return imports
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
