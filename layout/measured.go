package layout

// MeasuredParagraph 保存一个段落的字符、逐字符宽度与方向信息。
//
// 使用顺序：SetPara 之后按文本顺序调用 AddStyleRun/AddStyleRunSpans，
// 每次消费紧随其后的 n 个字符。同一实例不可并发使用。
type MeasuredParagraph struct {
	text      TextSource
	textStart int
	chars     []rune
	widths    []float64
	levels    []int8
	dir       Direction
	easy      bool
	length    int
	pos       int
	released  bool
}

// NewMeasuredParagraph 返回一个空的段落缓冲。
func NewMeasuredParagraph() *MeasuredParagraph {
	return &MeasuredParagraph{dir: DirLeftToRight, easy: true}
}

// SetPara 载入 text 的 [start,end) 并解析方向。
// 被替换对象覆盖的字符会改写为 U+FFFC，使其不参与方向判定。
func (m *MeasuredParagraph) SetPara(text TextSource, start, end int, h Heuristic) {
	if err := checkRange("SetPara", start, end, text.Len()); err != nil {
		panic(err)
	}
	n := end - start
	m.text = text
	m.textStart = start
	m.length = n
	m.pos = 0
	if cap(m.chars) < n {
		m.chars = make([]rune, n)
		m.widths = make([]float64, n)
	}
	m.chars = m.chars[:n]
	m.widths = m.widths[:n]
	clear(m.widths)
	text.CopyRunes(m.chars, start, end)

	if sp, ok := text.(Spanned); ok && n > 0 {
		for _, r := range sp.Spans(start, end) {
			if _, ok := r.Span.(ReplacementSpan); !ok {
				continue
			}
			s := max(r.Start, start) - start
			e := min(r.End, end) - start
			for i := s; i < e; i++ {
				m.chars[i] = ObjectReplacement
			}
		}
	}

	m.dir, m.levels, m.easy = ResolveDirection(h, m.chars, m.levels)
}

// SetPos 把测量游标移到绝对文本偏移 p。
func (m *MeasuredParagraph) SetPos(p int) {
	rel := p - m.textStart
	if rel < 0 || rel > m.length {
		panic(&RangeError{Op: "SetPos", Index: p, Len: m.length})
	}
	m.pos = rel
}

// Len 返回段落字符数。
func (m *MeasuredParagraph) Len() int { return m.length }

// Chars 返回段落字符（不可修改）。
func (m *MeasuredParagraph) Chars() []rune { return m.chars[:m.length] }

// Widths 返回已测量字符的宽度；替换对象的宽度记在首字符上，其余为 0。
func (m *MeasuredParagraph) Widths() []float64 { return m.widths[:m.length] }

// Levels 返回嵌入层级；简单段落返回 nil。
func (m *MeasuredParagraph) Levels() []int8 {
	if m.easy {
		return nil
	}
	return m.levels[:m.length]
}

func (m *MeasuredParagraph) Dir() Direction { return m.dir }
func (m *MeasuredParagraph) Easy() bool     { return m.easy }

// AddStyleRun 用 paint 测量接下来的 n 个字符，把 paint 的度量并入 fm，返回这段宽度。
// 非简单段落会在层级变化处拆开测量，每段按自身方向计算。
func (m *MeasuredParagraph) AddStyleRun(paint Paint, n int, fm *FontMetrics) float64 {
	if fm != nil {
		fm.Merge(paint.Metrics())
	}
	return m.addRun(styleRun{paint: paint}, n, fm)
}

// AddStyleRunSpans 在 base 的副本上依次应用 spans 中影响测量的标注后测量 n 个字符。
// 若其中包含替换对象，则由最后一个替换对象决定整段宽度与度量，替换对象自身不修改画笔。
func (m *MeasuredParagraph) AddStyleRunSpans(base Paint, spans []any, n int, fm *FontMetrics) float64 {
	run := styleRun{paint: base}
	run.paint.BaselineShift = 0
	for _, s := range spans {
		if r, ok := s.(ReplacementSpan); ok {
			run.kind = runReplacement
			run.replacement = r
		} else if ma, ok := s.(MetricAffectingSpan); ok {
			ma.UpdateMeasureState(&run.paint)
		}
	}
	if fm != nil && run.kind == runNormal {
		fm.Merge(run.paint.Metrics())
	}
	w := m.addRun(run, n, fm)
	if fm != nil {
		fm.shift(run.paint.BaselineShift)
	}
	return w
}

type runKind int

const (
	runNormal runKind = iota
	runReplacement
)

// styleRun 是一段样式一致的文本的测量方式，在段开始时确定。
type styleRun struct {
	kind        runKind
	paint       Paint
	replacement ReplacementSpan
}

func (m *MeasuredParagraph) addRun(run styleRun, n int, fm *FontMetrics) float64 {
	p := m.pos
	if n < 0 || p+n > m.length {
		panic(&RangeError{Op: "AddStyleRun", Start: m.textStart + p, End: m.textStart + p + n, Len: m.length})
	}
	m.pos += n
	if n == 0 {
		return 0
	}

	if run.kind == runReplacement {
		start := m.textStart + p
		wid, rfm, ok := run.replacement.Size(run.paint, m.text, start, start+n)
		if fm != nil {
			if !ok {
				rfm = run.paint.Metrics()
			}
			fm.Merge(rfm)
		}
		m.widths[p] = wid
		clear(m.widths[p+1 : p+n])
		return wid
	}

	if m.easy {
		return run.paint.advances(m.chars[p:p+n], m.dir == DirRightToLeft, m.widths[p:p+n])
	}

	total := 0.0
	level := m.levels[p]
	q := p
	for i, e := p+1, p+n; ; i++ {
		if i < e && m.levels[i] == level {
			continue
		}
		total += run.paint.advances(m.chars[q:i], level&1 != 0, m.widths[q:i])
		if i == e {
			break
		}
		q = i
		level = m.levels[i]
	}
	return total
}

// BreakText 返回从段首（forwards）或 limit 处向前（!forwards）累计宽度不超过 width 的字符数，
// 并去掉落在边界上的空格。
func (m *MeasuredParagraph) BreakText(limit int, forwards bool, width float64) int {
	w := m.widths
	if forwards {
		i := 0
		for i < limit {
			width -= w[i]
			if width < 0 {
				break
			}
			i++
		}
		for i > 0 && m.chars[i-1] == charSpace {
			i--
		}
		return i
	}
	i := limit - 1
	for i >= 0 {
		width -= w[i]
		if width < 0 {
			break
		}
		i--
	}
	for i < limit-1 && m.chars[i+1] == charSpace {
		i++
	}
	return limit - i - 1
}

// Measure 返回段内相对区间 [start,limit) 的宽度和。
func (m *MeasuredParagraph) Measure(start, limit int) float64 {
	width := 0.0
	for _, w := range m.widths[start:limit] {
		width += w
	}
	return width
}

// reset 丢弃文本引用，供回收前调用。
func (m *MeasuredParagraph) reset() {
	m.text = nil
	m.length = 0
	m.pos = 0
}
