package layout

// TextSource 是排版输入的只读文本，所有偏移都以 rune 计。
type TextSource interface {
	Len() int
	RuneAt(i int) rune
	// CopyRunes 将 [start,end) 复制到 dst 开头。
	CopyRunes(dst []rune, start, end int)
}

// Spanned 是带样式标注的文本。
//
// Spans 返回与 [start,end) 相交的全部标注：非空区间要求严格重叠，
// 空区间 [p,p) 返回覆盖或接触 p 的标注。结果先按优先级、再按插入顺序排列。
type Spanned interface {
	TextSource
	Spans(start, end int) []SpanRange
}

// SpanRange 是一个标注对象及其覆盖的区间。
type SpanRange struct {
	Span  any
	Start int
	End   int
}

// MetricAffectingSpan 修改字号、字体或基线等测量相关的画笔属性。
type MetricAffectingSpan interface {
	UpdateMeasureState(p *Paint)
}

// ReplacementSpan 用一个自行测量的对象替换整段文字（例如内嵌图片）。
// Size 返回对象宽度；ok 为 false 时改用画笔自身的度量。
type ReplacementSpan interface {
	MetricAffectingSpan
	Size(p Paint, text TextSource, start, end int) (width float64, fm FontMetrics, ok bool)
}

// LeadingMarginSpan 为段落提供首行与其余行的缩进。
type LeadingMarginSpan interface {
	LeadingMargin(first bool) int
}

// LeadingMarginSpan2 额外指定首行缩进覆盖的行数。
type LeadingMarginSpan2 interface {
	LeadingMarginSpan
	LeadingMarginLineCount() int
}

// LineHeightSpan 可以在行输出前改写行度量。
type LineHeightSpan interface {
	ChooseHeight(text TextSource, start, end, spanStartV, v int, fm *FontMetrics)
}

// TabStopSpan 提供一个显式制表位。
type TabStopSpan interface {
	TabStop() int
}

// Runes 是最简单的 TextSource 实现。
type Runes []rune

// NewText converts s into a TextSource.
func NewText(s string) Runes { return Runes(s) }

func (r Runes) Len() int          { return len(r) }
func (r Runes) RuneAt(i int) rune { return r[i] }
func (r Runes) CopyRunes(dst []rune, start, end int) {
	copy(dst, r[start:end])
}

func (r Runes) String() string { return string(r) }

// textString 读取 [start,end) 为字符串。
func textString(text TextSource, start, end int) string {
	if s, ok := text.(Runes); ok {
		return string(s[start:end])
	}
	buf := make([]rune, end-start)
	text.CopyRunes(buf, start, end)
	return string(buf)
}

func indexRune(text TextSource, c rune, start, end int) int {
	for i := start; i < end; i++ {
		if text.RuneAt(i) == c {
			return i
		}
	}
	return -1
}
