package layout

import (
	"fmt"
)

const extraRounding = 0.5

// Build 对整段文本排版。
func Build(text TextSource, paint Paint, opts Options) (*Table, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: 文本为空", ErrInvalidOptions)
	}
	return BuildRange(text, 0, text.Len(), paint, opts)
}

// BuildRange 只对 text 的 [start,end) 排版，行偏移仍以整段文本为基准。
func BuildRange(text TextSource, start, end int, paint Paint, opts Options) (*Table, error) {
	if text == nil {
		return nil, fmt.Errorf("%w: 文本为空", ErrInvalidOptions)
	}
	if err := checkRange("BuildRange", start, end, text.Len()); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if paint.Face == nil {
		return nil, fmt.Errorf("%w: 缺少字体 Face", ErrInvalidOptions)
	}

	t := newTable(text, start, end, opts)
	err := defaultPool.With(func(mp *MeasuredParagraph) error {
		b := newLineBreaker(t, text, start, end, paint, opts, mp)
		b.run()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// lineBreaker 逐段扫描字符并向 Table 输出行，只在一次 Build 内使用。
type lineBreaker struct {
	t        *Table
	text     TextSource
	spanned  Spanned
	paint    Paint
	opts     Options
	mp       *MeasuredParagraph
	bufStart int
	bufEnd   int
	maxLines int

	mult         float64
	needMultiply bool
	ellipsis     Ellipsizer
	v            int

	// 当前段落
	paraStart int
	hasTab    bool
	tabStops  *TabStops
	tabSpans  []TabStopSpan
	heights   []LineHeightSpan
	heightV   []int
}

func newLineBreaker(t *Table, text TextSource, start, end int, paint Paint, opts Options, mp *MeasuredParagraph) *lineBreaker {
	b := &lineBreaker{
		t:        t,
		text:     text,
		paint:    paint,
		opts:     opts,
		mp:       mp,
		bufStart: start,
		bufEnd:   end,
		maxLines: opts.maxLines(),
		mult:     opts.spacingMult(),
	}
	b.spanned, _ = text.(Spanned)
	b.needMultiply = b.mult != 1 || opts.SpacingAdd != 0
	if opts.Ellipsize != TruncateNone {
		b.ellipsis = Ellipsizer{
			Mode:          opts.Ellipsize,
			Avail:         float64(opts.ellipsizedWidth()),
			EllipsisWidth: paint.MeasureText(string(opts.Ellipsize.ellipsisRune())),
			SingleLine:    b.maxLines == 1,
		}
	}
	return b
}

// pendingLine 是即将输出的一行。
type pendingLine struct {
	start, end int
	fm         FontMetrics
	width      float64
	indent     int
	moreChars  bool
}

func (b *lineBreaker) lineCount() int { return b.t.LineCount() }

func (b *lineBreaker) run() {
	for paraStart := b.bufStart; paraStart <= b.bufEnd; {
		paraEnd := indexRune(b.text, charNewline, paraStart, b.bufEnd)
		if paraEnd < 0 {
			paraEnd = b.bufEnd
		} else {
			paraEnd++
		}
		if !b.paragraph(paraStart, paraEnd) {
			return
		}
		if paraEnd == b.bufEnd {
			break
		}
		paraStart = paraEnd
	}

	if (b.bufEnd == b.bufStart || b.text.RuneAt(b.bufEnd-1) == charNewline) && b.lineCount() < b.maxLines {
		b.paraStart = b.bufEnd
		b.hasTab = false
		b.heights = b.heights[:0]
		b.heightV = b.heightV[:0]
		b.emit(pendingLine{start: b.bufEnd, end: b.bufEnd, fm: b.paint.Metrics()}, nil)
	}
}

// paragraphSpans 是一个段落内按能力分类的标注。
type paragraphSpans struct {
	metric  []SpanRange
	margins []SpanRange
	heights []SpanRange
	tabs    []TabStopSpan
}

func collectSpans(sp Spanned, start, end int) paragraphSpans {
	var ps paragraphSpans
	if sp == nil || (start == end && start > 0) {
		return ps
	}
	for _, r := range sp.Spans(start, end) {
		if _, ok := r.Span.(MetricAffectingSpan); ok && r.Start != r.End {
			ps.metric = append(ps.metric, r)
		}
		if _, ok := r.Span.(LeadingMarginSpan); ok {
			ps.margins = append(ps.margins, r)
		}
		if _, ok := r.Span.(LineHeightSpan); ok {
			ps.heights = append(ps.heights, r)
		}
		if ts, ok := r.Span.(TabStopSpan); ok {
			ps.tabs = append(ps.tabs, ts)
		}
	}
	return ps
}

// nextTransition 返回 (start, limit) 内下一个影响测量的标注边界，没有则为 limit。
func (ps *paragraphSpans) nextTransition(start, limit int) int {
	for _, r := range ps.metric {
		if r.Start > start && r.Start < limit {
			limit = r.Start
		}
		if r.End > start && r.End < limit {
			limit = r.End
		}
	}
	return limit
}

// metricIn 返回与 [start,end) 重叠的测量标注，保持原有顺序。
func (ps *paragraphSpans) metricIn(start, end int) []any {
	var out []any
	for _, r := range ps.metric {
		if r.Start < end && r.End > start {
			out = append(out, r.Span)
		}
	}
	return out
}

// paragraph 排版 [paraStart,paraEnd)，达到最大行数时返回 false。
func (b *lineBreaker) paragraph(paraStart, paraEnd int) bool {
	t := b.t
	ps := collectSpans(b.spanned, paraStart, paraEnd)

	width, restWidth := b.opts.Width, b.opts.Width
	indent, restIndent := 0, 0
	firstWidthLineLimit := b.lineCount() + 1
	for _, r := range ps.margins {
		lms := r.Span.(LeadingMarginSpan)
		first, rest := lms.LeadingMargin(true), lms.LeadingMargin(false)
		width -= first
		restWidth -= rest
		indent += first
		restIndent += rest
		// 首行行数从标注起点所在行算起，并作用于段落内全部缩进标注。
		if lms2, ok := lms.(LeadingMarginSpan2); ok {
			firstLine := b.lineCount()
			if r.Start < paraStart {
				firstLine = t.LineForOffset(max(r.Start, t.start))
			}
			firstWidthLineLimit = firstLine + lms2.LeadingMarginLineCount()
		}
	}
	if b.lineCount() >= firstWidthLineLimit {
		width, indent = restWidth, restIndent
	}

	b.heights, b.heightV = b.heights[:0], b.heightV[:0]
	for _, r := range ps.heights {
		b.heights = append(b.heights, r.Span.(LineHeightSpan))
		if r.Start < paraStart {
			b.heightV = append(b.heightV, t.LineTop(t.LineForOffset(max(r.Start, t.start))))
		} else {
			b.heightV = append(b.heightV, b.v)
		}
	}

	mp := b.mp
	mp.SetPara(b.text, paraStart, paraEnd, b.opts.TextDir)
	chs, widths := mp.Chars(), mp.Widths()
	b.paraStart = paraStart
	b.hasTab = false
	b.tabStops = nil
	b.tabSpans = ps.tabs

	var (
		w                 float64
		here, ok, fit     = paraStart, paraStart, paraStart
		okWidth, fitWidth float64
		okFm, fitFm       FontMetrics
		fm                FontMetrics
	)

	for spanStart, spanEnd := paraStart, paraStart; spanStart < paraEnd; spanStart = spanEnd {
		fm = FontMetrics{}
		if b.spanned == nil {
			spanEnd = paraEnd
			mp.AddStyleRun(b.paint, spanEnd-spanStart, &fm)
		} else {
			spanEnd = ps.nextTransition(spanStart, paraEnd)
			mp.AddStyleRunSpans(b.paint, ps.metricIn(spanStart, spanEnd), spanEnd-spanStart, &fm)
		}

		for j := spanStart; j < spanEnd; j++ {
			c := chs[j-paraStart]
			switch c {
			case charNewline:
			case charTab:
				w = b.nextTab(w)
			default:
				w += widths[j-paraStart]
			}

			if w <= float64(width) || IsSpaceOrTab(c) || c == charZWSP {
				fitWidth = w
				fit = j + 1
				fitFm.Merge(fm)

				next, hasNext := rune(0), j+1 < spanEnd
				if hasNext {
					next = chs[j+1-paraStart]
				}
				if ClassifyBreak(c, next, hasNext) != BreakNone {
					okWidth = w
					ok = j + 1
					okFm.Merge(fitFm)
				}
				continue
			}

			ln := pendingLine{start: here, indent: indent, moreChars: true}
			switch {
			case ok != here:
				ln.end, ln.fm, ln.width = ok, okFm, okWidth
			case fit != here:
				ln.end, ln.fm, ln.width = fit, fitFm, fitWidth
			default:
				ln.end, ln.fm, ln.width = here+1, fm, widths[here-paraStart]
			}
			b.emit(ln, mp)

			here = ln.end
			j = here - 1
			ok, fit = here, here
			w = 0
			okFm, fitFm = FontMetrics{}, FontMetrics{}

			if b.lineCount() >= firstWidthLineLimit {
				width, indent = restWidth, restIndent
			}
			if b.lineCount() >= b.maxLines {
				return false
			}
			if here < spanStart {
				// 断点落在当前样式段之前，从断点处重新测量。
				mp.SetPos(here)
				spanEnd = here
				break
			}
		}
	}

	if paraEnd != here {
		if fitFm.IsZero() {
			fitFm = b.paint.Metrics()
		}
		b.emit(pendingLine{
			start:     here,
			end:       paraEnd,
			fm:        fitFm,
			width:     w,
			indent:    indent,
			moreChars: paraEnd != b.bufEnd,
		}, mp)
		if b.lineCount() >= b.maxLines {
			return false
		}
	}
	return true
}

func (b *lineBreaker) nextTab(w float64) float64 {
	if !b.hasTab {
		b.hasTab = true
		if len(b.tabSpans) > 0 {
			b.tabStops = NewTabStops(TabIncrement, b.tabSpans)
		}
	}
	if b.tabStops != nil {
		return b.tabStops.NextTab(w)
	}
	return nextDefaultStop(w, TabIncrement)
}

// emit 把一行写入 Table 并推进纵坐标 v。mp 为 nil 表示文本末尾的空行。
func (b *lineBreaker) emit(ln pendingLine, mp *MeasuredParagraph) {
	t := b.t
	j := b.lineCount()
	fm := ln.fm

	for i, h := range b.heights {
		h.ChooseHeight(b.text, ln.start, ln.end, b.heightV[i], b.v, &fm)
	}
	above, below, top, bottom := fm.Ascent, fm.Descent, fm.Top, fm.Bottom

	if j == 0 {
		if b.opts.IncludePad {
			t.topPadding = top - above
			above = top
		}
	}
	if ln.end == b.bufEnd {
		if b.opts.IncludePad {
			t.bottomPadding = bottom - below
			below = bottom
		}
	}

	extra := 0
	if b.needMultiply {
		ex := float64(below-above)*(b.mult-1) + b.opts.SpacingAdd
		if ex >= 0 {
			extra = int(ex + extraRounding)
		} else {
			extra = -int(-ex + extraRounding)
		}
	}

	rec := LineRecord{
		Start:   ln.start,
		Top:     b.v,
		Descent: below + extra,
		Dir:     DirLeftToRight,
		HasTab:  b.hasTab,
		Width:   ln.width,
		Indent:  ln.indent,
	}
	b.v += (below - above) + extra

	n := ln.end - ln.start
	if mp == nil {
		rec.Runs = singleRun(n)
	} else {
		rec.Dir = mp.Dir()
		rel := ln.start - b.paraStart
		if mp.Easy() {
			rec.Runs = singleRun(n)
		} else {
			rec.Runs = lineDirections(mp.Dir(), mp.Levels(), mp.Chars(), rel, n)
		}
		rec.Max = b.extent(mp, rel, rel+visibleEnd(mp.Chars()[rel:rel+n]))

		if b.opts.Ellipsize != TruncateNone {
			rec.EllipsisStart, rec.EllipsisCount = b.elide(j, ln, mp.Widths()[rel:rel+n])
		}
	}

	t.lines[j] = rec
	t.lines = append(t.lines, LineRecord{Start: ln.end, Top: b.v})
}

// elide 按单行/多行策略决定第 j 行是否需要省略。
func (b *lineBreaker) elide(j int, ln pendingLine, widths []float64) (int, int) {
	mode := b.opts.Ellipsize
	firstLine := j == 0
	lastVisible := j+1 == b.maxLines
	force := ln.moreChars && j+1 == b.maxLines

	do := (((b.maxLines == 1 && ln.moreChars) || (firstLine && !ln.moreChars)) && mode != TruncateMarquee) ||
		(!firstLine && (lastVisible || !ln.moreChars) && mode.elidesAtEnd())
	if !do {
		return 0, 0
	}
	return b.ellipsis.Elide(widths, ln.width, force)
}

// extent 重放段内 [start,end) 的宽度累加，制表符按制表位展开。
func (b *lineBreaker) extent(mp *MeasuredParagraph, start, end int) float64 {
	chs, widths := mp.Chars(), mp.Widths()
	w := 0.0
	for i := start; i < end; i++ {
		switch chs[i] {
		case charNewline:
		case charTab:
			if b.tabStops != nil {
				w = b.tabStops.NextTab(w)
			} else {
				w = nextDefaultStop(w, TabIncrement)
			}
		default:
			w += widths[i]
		}
	}
	return w
}
