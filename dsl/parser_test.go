package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/papyrus-text/dsl"
)

const sampleDSL = `
meta {
  align: center
  keywords: [
    "intro"
    "demo"
  ]
}

// 示例文本
text Greeting {
  width: 240
  ellipsize: "end"
  "Hello, ${user.name}! "
  size 1.5 { "bigger" }
  face mono { "code" }
  shift -4 { "sup" }
  image 24 -18 4
  margin 16 8 lines 2 { "indented paragraph\n" }
  tabs 40 80 { "a\tb\n" }
  line-height 30 { "tall line\n" }
}

text Footer { "bye" }
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	if kind := doc.Sections[0].Kind(); kind != "meta" {
		t.Fatalf("expected meta section first, got %s", kind)
	}

	meta := doc.Meta()
	if meta == nil || len(meta.Block.Statements) != 2 {
		t.Fatalf("meta statements missing: %+v", meta)
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil || len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected keywords array assignment, got %+v", meta.Block.Statements[1])
	}

	greeting := doc.Text("")
	if greeting == nil || greeting.Name != "Greeting" {
		t.Fatalf("expected first text section Greeting, got %+v", greeting)
	}
	if footer := doc.Text("Footer"); footer == nil || len(footer.Block.Statements) != 1 {
		t.Fatalf("footer section missing")
	}
	if doc.Text("Missing") != nil {
		t.Fatalf("unknown section should be nil")
	}

	stmts := greeting.Block.Statements
	if len(stmts) != 10 {
		t.Fatalf("expected 10 statements, got %d", len(stmts))
	}
	width := stmts[0].Assignment
	if width == nil || width.Key != "width" || width.Value.Number == nil || *width.Value.Number != "240" {
		t.Fatalf("unexpected width assignment: %+v", stmts[0])
	}
	if got := string(stmts[2].Text.Value); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation in text literal, got %s", got)
	}

	size := stmts[3].Command
	if size == nil || size.Name != "size" || size.Args[0].Value != "1.5" || size.Block == nil {
		t.Fatalf("unexpected size command: %+v", size)
	}
	shift := stmts[5].Command
	if shift.Args[0].Value != "-4" {
		t.Fatalf("expected negative shift, got %+v", shift.Args)
	}
	image := stmts[6].Command
	if image.Name != "image" || len(image.Args) != 3 || image.Block != nil {
		t.Fatalf("unexpected image command: %+v", image)
	}
	margin := stmts[7].Command
	if len(margin.Args) != 4 || margin.Args[2].Value != "lines" {
		t.Fatalf("unexpected margin args: %+v", margin.Args)
	}
	if got := string(margin.Block.Statements[0].Text.Value); got != "indented paragraph\n" {
		t.Fatalf("string literal should be unquoted, got %q", got)
	}
	if lh := stmts[9].Command; lh.Name != "line-height" {
		t.Fatalf("expected line-height command, got %s", lh.Name)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		``,
		`text { "missing name" }`,
		`text A { "unterminated }`,
		`page A4 { }`,
	} {
		if _, err := dsl.ParseString(src); err == nil {
			t.Fatalf("expected parse error for %q", src)
		}
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader(`text A { "x"; "y" }`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := len(doc.Text("A").Block.Statements); got != 2 {
		t.Fatalf("expected 2 statements, got %d", got)
	}
}
