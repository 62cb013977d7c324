package layout

import (
	"errors"
	"testing"
)

func TestMeasuredParagraphPlainRun(t *testing.T) {
	mp := NewMeasuredParagraph()
	text := NewText("hello world")
	mp.SetPara(text, 6, 11, FirstStrongLTR)
	var fm FontMetrics
	w := mp.AddStyleRun(monoPaint, 5, &fm)
	if w != 50 {
		t.Fatalf("期望宽度 50，实际 %g", w)
	}
	if want := (monoFace{}).Metrics(10); fm != want {
		t.Fatalf("度量未并入: %+v", fm)
	}
	if got := mp.Measure(0, 5); got != w {
		t.Fatalf("Measure 与 AddStyleRun 不一致: %g vs %g", got, w)
	}
	if !mp.Easy() || mp.Levels() != nil {
		t.Fatalf("ASCII 段落应为简单段落")
	}
}

func TestMeasuredParagraphSplitsAtLevelBoundaries(t *testing.T) {
	rec := &recordingFace{}
	mp := NewMeasuredParagraph()
	mp.SetPara(NewText("ab"+hebrew+"cd"), 0, 8, FirstStrongLTR)
	w := mp.AddStyleRun(Paint{Face: rec, Size: 10}, 8, nil)
	if w != 80 {
		t.Fatalf("期望宽度 80，实际 %g", w)
	}
	want := []struct {
		n   int
		rtl bool
	}{{2, false}, {4, true}, {2, false}}
	if len(rec.calls) != len(want) {
		t.Fatalf("期望 %d 次测量，实际 %+v", len(want), rec.calls)
	}
	for i, c := range want {
		if rec.calls[i].n != c.n || rec.calls[i].rtl != c.rtl {
			t.Fatalf("第 %d 次测量 %+v，期望 %+v", i, rec.calls[i], c)
		}
	}
}

type faceCall struct {
	n   int
	rtl bool
}

type recordingFace struct {
	monoFace
	calls []faceCall
}

func (r *recordingFace) Advances(text []rune, rtl bool, size float64, widths []float64) float64 {
	r.calls = append(r.calls, faceCall{len(text), rtl})
	return r.monoFace.Advances(text, rtl, size, widths)
}

func TestMeasuredParagraphSpans(t *testing.T) {
	rep := fixedReplacement{width: 25, fm: FontMetrics{Top: -30, Ascent: -20, Descent: 5, Bottom: 6}}
	text := newSpanText("aXbcd",
		SpanRange{Span: rep, Start: 1, End: 2},
		SpanRange{Span: relSize{2}, Start: 3, End: 5},
		SpanRange{Span: baselineShift{-4}, Start: 3, End: 5},
	)
	mp := NewMeasuredParagraph()
	mp.SetPara(text, 0, 5, FirstStrongLTR)
	if c := mp.Chars()[1]; c != ObjectReplacement {
		t.Fatalf("被替换字符应为 U+FFFC，实际 %U", c)
	}

	var fm FontMetrics
	mp.AddStyleRunSpans(monoPaint, nil, 1, &fm)
	fm = FontMetrics{}
	if w := mp.AddStyleRunSpans(monoPaint, []any{rep}, 1, &fm); w != 25 {
		t.Fatalf("替换对象宽度期望 25，实际 %g", w)
	}
	if fm != rep.fm {
		t.Fatalf("替换对象度量期望 %+v，实际 %+v", rep.fm, fm)
	}
	mp.AddStyleRunSpans(monoPaint, nil, 1, nil)
	fm = FontMetrics{}
	if w := mp.AddStyleRunSpans(monoPaint, []any{relSize{2}, baselineShift{-4}}, 2, &fm); w != 40 {
		t.Fatalf("两倍字号宽度期望 40，实际 %g", w)
	}
	want := FontMetrics{Top: -24 - 4, Ascent: -20 - 4, Descent: 6, Bottom: 8}
	if fm != want {
		t.Fatalf("基线上移后度量期望 %+v，实际 %+v", want, fm)
	}
	widths := mp.Widths()
	for i, w := range []float64{10, 25, 10, 20, 20} {
		if widths[i] != w {
			t.Fatalf("widths = %v", widths)
		}
	}
}

func TestMeasuredParagraphReplacementSpansSeveralChars(t *testing.T) {
	rep := fixedReplacement{width: 33}
	text := newSpanText("xyz", SpanRange{Span: rep, Start: 0, End: 3})
	mp := NewMeasuredParagraph()
	mp.SetPara(text, 0, 3, LTR)
	mp.AddStyleRunSpans(monoPaint, []any{rep}, 3, nil)
	widths := mp.Widths()
	if widths[0] != 33 || widths[1] != 0 || widths[2] != 0 {
		t.Fatalf("替换对象宽度只应记在首字符上: %v", widths)
	}
}

func TestMeasuredParagraphBreakText(t *testing.T) {
	mp := NewMeasuredParagraph()
	mp.SetPara(NewText("ab cd efgh"), 0, 10, LTR)
	mp.AddStyleRun(monoPaint, 10, nil)
	if got := mp.BreakText(10, true, 45); got != 4 {
		t.Fatalf("前向 45px 期望 4，实际 %d", got)
	}
	if got := mp.BreakText(10, true, 35); got != 2 {
		t.Fatalf("前向 35px 落在空格后应回退到 2，实际 %d", got)
	}
	if got := mp.BreakText(10, false, 45); got != 4 {
		t.Fatalf("后向 45px 期望 4，实际 %d", got)
	}
	if got := mp.BreakText(10, false, 55); got != 4 {
		t.Fatalf("后向 55px 的边界空格不计入，期望 4，实际 %d", got)
	}
}

func TestMeasuredParagraphContract(t *testing.T) {
	mp := NewMeasuredParagraph()
	r := expectPanic(t, "SetPara", func() { mp.SetPara(NewText("abc"), 2, 5, LTR) })
	var re *RangeError
	if err, ok := r.(error); !ok || !errors.As(err, &re) {
		t.Fatalf("期望 *RangeError，实际 %v", r)
	}
	mp.SetPara(NewText("abc"), 0, 3, LTR)
	expectPanic(t, "AddStyleRun", func() { mp.AddStyleRun(monoPaint, 4, nil) })
	expectPanic(t, "SetPos", func() { mp.SetPos(9) })
}
