package styled

import (
	"errors"
	"testing"

	"github.com/ByLCY/papyrus-text/layout"
)

type tag string

func spanTags(rs []layout.SpanRange) []tag {
	out := make([]tag, len(rs))
	for i, r := range rs {
		out[i] = r.Span.(tag)
	}
	return out
}

func equalTags(a, b []tag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSpansOverlap(t *testing.T) {
	var b Builder
	b.Append("hello world")
	mustSet(t, &b, tag("hello"), 0, 5)
	mustSet(t, &b, tag("world"), 6, 11)
	mustSet(t, &b, tag("all"), 0, 11)
	mustSet(t, &b, tag("empty"), 5, 5)
	text := b.Build()

	cases := []struct {
		start, end int
		want       []tag
	}{
		{0, 5, []tag{"hello", "all", "empty"}},
		{5, 6, []tag{"all", "empty"}},
		{6, 11, []tag{"world", "all"}},
		{5, 5, []tag{"hello", "all", "empty"}},
		{6, 6, []tag{"world", "all"}},
	}
	for _, c := range cases {
		if got := spanTags(text.Spans(c.start, c.end)); !equalTags(got, c.want) {
			t.Fatalf("Spans(%d,%d) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestSpansPriorityOrder(t *testing.T) {
	var b Builder
	b.Append("abc")
	mustSet(t, &b, tag("first"), 0, 3)
	if err := b.SetSpanPriority(tag("high"), 0, 3, 10); err != nil {
		t.Fatalf("SetSpanPriority: %v", err)
	}
	mustSet(t, &b, tag("second"), 1, 2)
	got := spanTags(b.Build().Spans(0, 3))
	if want := []tag{"high", "first", "second"}; !equalTags(got, want) {
		t.Fatalf("Spans = %v, want %v", got, want)
	}
}

func TestBuilderErrors(t *testing.T) {
	var b Builder
	b.Append("abc")
	if err := b.SetSpan(nil, 0, 1); !errors.Is(err, ErrNilSpan) {
		t.Fatalf("nil 标注应返回 ErrNilSpan，实际 %v", err)
	}
	var re *layout.RangeError
	if err := b.SetSpan(tag("x"), 2, 4); !errors.As(err, &re) {
		t.Fatalf("越界标注应返回 *layout.RangeError，实际 %v", err)
	}
	if err := b.Wrap("de", nil); !errors.Is(err, ErrNilSpan) {
		t.Fatalf("Wrap 应透传错误，实际 %v", err)
	}
}

func TestBuildIsImmutable(t *testing.T) {
	var b Builder
	if err := b.Wrap("ab", tag("a")); err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	text := b.Build()
	b.Append("cd")
	mustSet(t, &b, tag("c"), 2, 4)
	if text.Len() != 2 || text.SpanCount() != 1 || text.String() != "ab" {
		t.Fatalf("Build 之后的修改不应影响已生成的文本: %q %d", text.String(), text.SpanCount())
	}
	buf := make([]rune, 2)
	text.CopyRunes(buf, 0, 2)
	if string(buf) != "ab" || text.RuneAt(1) != 'b' {
		t.Fatalf("CopyRunes/RuneAt 错误")
	}
}

func TestTextImplementsSpanned(t *testing.T) {
	var _ layout.Spanned = New("x")
	if New("").Spans(0, 0) != nil {
		t.Fatalf("无标注文本应返回 nil")
	}
}

func mustSet(t *testing.T, b *Builder, span any, start, end int) {
	t.Helper()
	if err := b.SetSpan(span, start, end); err != nil {
		t.Fatalf("SetSpan(%v,%d,%d): %v", span, start, end, err)
	}
}
