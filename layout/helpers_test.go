package layout

import "testing"

// monoFace 是测试用等宽字体：每个字符宽度等于字号，换行符宽度为 0。
type monoFace struct{}

func (monoFace) Metrics(size float64) FontMetrics {
	s := size / 10
	return FontMetrics{
		Top:     -int(12 * s),
		Ascent:  -int(10 * s),
		Descent: int(3 * s),
		Bottom:  int(4 * s),
	}
}

func (monoFace) Advances(text []rune, rtl bool, size float64, widths []float64) float64 {
	total := 0.0
	for i, r := range text {
		w := size
		if r == '\n' {
			w = 0
		}
		widths[i] = w
		total += w
	}
	return total
}

var monoPaint = Paint{Face: monoFace{}, Size: 10}

// spanText 是测试用的带标注文本。
type spanText struct {
	Runes
	spans []SpanRange
}

func newSpanText(s string, spans ...SpanRange) spanText {
	return spanText{Runes: NewText(s), spans: spans}
}

func (s spanText) Spans(start, end int) []SpanRange {
	var out []SpanRange
	for _, r := range s.spans {
		if start == end {
			if r.Start <= start && r.End >= start {
				out = append(out, r)
			}
			continue
		}
		if r.Start < end && r.End > start {
			out = append(out, r)
		}
	}
	return out
}

type relSize struct{ factor float64 }

func (r relSize) UpdateMeasureState(p *Paint) { p.Size *= r.factor }

type baselineShift struct{ px int }

func (b baselineShift) UpdateMeasureState(p *Paint) { p.BaselineShift += b.px }

type fixedReplacement struct {
	width float64
	fm    FontMetrics
}

func (fixedReplacement) UpdateMeasureState(*Paint) {}

func (f fixedReplacement) Size(Paint, TextSource, int, int) (float64, FontMetrics, bool) {
	return f.width, f.fm, true
}

type margin struct{ first, rest int }

func (m margin) LeadingMargin(first bool) int {
	if first {
		return m.first
	}
	return m.rest
}

type margin2 struct {
	margin
	lines int
}

func (m margin2) LeadingMarginLineCount() int { return m.lines }

type heightCall struct{ spanStartV, v int }

type fixedHeight struct {
	height int
	calls  *[]heightCall
}

func (f fixedHeight) ChooseHeight(_ TextSource, _, _, spanStartV, v int, fm *FontMetrics) {
	if f.calls != nil {
		*f.calls = append(*f.calls, heightCall{spanStartV, v})
	}
	fm.Descent = fm.Ascent + f.height
	fm.Bottom = fm.Descent
}

type tabStop int

func (t tabStop) TabStop() int { return int(t) }

func mustBuild(t *testing.T, text TextSource, opts Options) *Table {
	t.Helper()
	tbl, err := Build(text, monoPaint, opts)
	if err != nil {
		t.Fatalf("Build 失败: %v", err)
	}
	return tbl
}

func lineTexts(tbl *Table) []string {
	out := make([]string, tbl.LineCount())
	for i := range out {
		out[i] = textString(tbl.text, tbl.LineStart(i), tbl.LineEnd(i))
	}
	return out
}

func expectPanic(t *testing.T, name string, fn func()) any {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	if recovered == nil {
		t.Fatalf("%s: 期望 panic", name)
	}
	return recovered
}
