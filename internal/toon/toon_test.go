package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/litdoc/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/main.py", "src/main.py"},
		{"go root package", ".", "."},
		{"typst package", "@preview/cetz:0.2.0", `"@preview/cetz:0.2.0"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	ix := &model.Index{
		Root: "myrepo",
		Modules: []model.IndexModule{
			{ID: "doc/parts/a", Origin: "doc/parts/a.typ", Language: "typst", Deps: 0, Rank: 0.65},
			{ID: "doc/main", Origin: "doc/main.typ", Language: "typst", Deps: 2, Rank: 0.35},
		},
		Edges: []model.IndexEdge{
			{Source: "doc/main", Target: "doc/parts/a", Resolved: true},
			{Source: "doc/main", Target: "doc/missing", Resolved: false},
		},
	}

	got := Encode(ix)

	want := []string{
		"root: myrepo",
		"modules[2]{id,origin,language,deps,rank}:",
		"  doc/parts/a,doc/parts/a.typ,typst,0,0.6500",
		"  doc/main,doc/main.typ,typst,2,0.3500",
		"dependencies[2]{source,target,resolved}:",
		"  doc/main,doc/parts/a,true",
		"  doc/main,doc/missing,false",
	}
	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Index{Root: "empty"})
	if !strings.Contains(got, "modules[0]{id,origin,language,deps,rank}:") {
		t.Errorf("expected empty modules section, got:\n%s", got)
	}
	if !strings.Contains(got, "dependencies[0]{source,target,resolved}:") {
		t.Errorf("expected empty dependencies section, got:\n%s", got)
	}
}

func TestEncodeCell(t *testing.T) {
	t.Parallel()

	if got := encodeCell(true); got != "true" {
		t.Errorf("bool cell = %q", got)
	}
	if got := encodeCell("true"); got != `"true"` {
		t.Errorf("string cell = %q", got)
	}
	if got := encodeCell(0.5); got != "0.5000" {
		t.Errorf("float cell = %q", got)
	}
	if got := encodeCell(7); got != "7" {
		t.Errorf("int cell = %q", got)
	}
}
