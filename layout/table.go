package layout

import (
	"math"
	"strings"
)

// LineRecord 是排版结果中的一行。
type LineRecord struct {
	Start   int       `json:"start"`
	Top     int       `json:"top"`
	Descent int       `json:"descent"`
	Dir     Direction `json:"dir"`
	HasTab  bool      `json:"hasTab,omitempty"`
	// Width 是换行器测得的行宽，Max 去掉了行尾空白。
	Width float64 `json:"width"`
	Max   float64 `json:"max"`
	// Indent 是该行所用的段首缩进。
	Indent        int            `json:"indent,omitempty"`
	EllipsisStart int            `json:"ellipsisStart,omitempty"`
	EllipsisCount int            `json:"ellipsisCount,omitempty"`
	Runs          []DirectionRun `json:"runs"`
}

// Table 是一次排版的只读结果，可被多个 goroutine 同时查询。
//
// lines 比行数多一项：末项只记录最后一行之后的 Start 与 Top。
// 行号越界的查询会 panic(*RangeError)。
type Table struct {
	text          TextSource
	start, end    int
	opts          Options
	maxLines      int
	lines         []LineRecord
	topPadding    int
	bottomPadding int
}

func newTable(text TextSource, start, end int, opts Options) *Table {
	return &Table{
		text:     text,
		start:    start,
		end:      end,
		opts:     opts,
		maxLines: opts.maxLines(),
		lines:    []LineRecord{{Start: start}},
	}
}

// LineCount 返回行数。
func (t *Table) LineCount() int { return len(t.lines) - 1 }

func (t *Table) checkLine(op string, line int, sentinel bool) {
	n := t.LineCount()
	if sentinel {
		n++
	}
	if line < 0 || line >= n {
		panic(&RangeError{Op: op, Index: line, Len: t.LineCount()})
	}
}

// capped reports whether the table was built with a visible line limit.
func (t *Table) capped() bool { return t.opts.MaxLines > 0 }

// LineStart 返回行首偏移；line 可以等于 LineCount，此时为文本末尾。
func (t *Table) LineStart(line int) int {
	t.checkLine("LineStart", line, true)
	return t.lines[line].Start
}

// LineEnd 返回行尾偏移（不含）。
func (t *Table) LineEnd(line int) int {
	t.checkLine("LineEnd", line, false)
	return t.lines[line+1].Start
}

// LineTop 返回行顶的纵坐标；line 可以等于 LineCount。
// 受最大行数限制时，可见行之后的行顶计入底部留白。
func (t *Table) LineTop(line int) int {
	t.checkLine("LineTop", line, true)
	top := t.lines[line].Top
	if t.capped() && line >= t.opts.MaxLines && line != t.LineCount() {
		top += t.bottomPadding
	}
	return top
}

// LineDescent 返回行的下行高度（含行距调整）。
// 受最大行数限制时，最后一个可见行计入底部留白。
func (t *Table) LineDescent(line int) int {
	t.checkLine("LineDescent", line, false)
	descent := t.lines[line].Descent
	if t.capped() && line >= t.opts.MaxLines-1 && line != t.LineCount() {
		descent += t.bottomPadding
	}
	return descent
}

// LineBottom 返回行底，即下一行的行顶。
func (t *Table) LineBottom(line int) int {
	t.checkLine("LineBottom", line, false)
	return t.LineTop(line + 1)
}

// LineBaseline 返回行的基线纵坐标。
func (t *Table) LineBaseline(line int) int {
	t.checkLine("LineBaseline", line, false)
	return t.LineTop(line+1) - t.LineDescent(line)
}

// LineAscent 返回行顶相对基线的偏移（负值）。
func (t *Table) LineAscent(line int) int {
	t.checkLine("LineAscent", line, false)
	return t.LineTop(line) - t.LineBaseline(line)
}

// Height 返回全部行的总高度。
func (t *Table) Height() int { return t.LineTop(t.LineCount()) }

func (t *Table) ParagraphDirection(line int) Direction {
	t.checkLine("ParagraphDirection", line, false)
	return t.lines[line].Dir
}

func (t *Table) LineContainsTab(line int) bool {
	t.checkLine("LineContainsTab", line, false)
	return t.lines[line].HasTab
}

// LineDirections 返回行内按视觉顺序排列的方向段。
func (t *Table) LineDirections(line int) []DirectionRun {
	t.checkLine("LineDirections", line, false)
	return t.lines[line].Runs
}

func (t *Table) EllipsisStart(line int) int {
	t.checkLine("EllipsisStart", line, false)
	return t.lines[line].EllipsisStart
}

func (t *Table) EllipsisCount(line int) int {
	t.checkLine("EllipsisCount", line, false)
	return t.lines[line].EllipsisCount
}

func (t *Table) TopPadding() int    { return t.topPadding }
func (t *Table) BottomPadding() int { return t.bottomPadding }

// EllipsizedWidth 返回省略判定使用的宽度。
func (t *Table) EllipsizedWidth() int { return t.opts.ellipsizedWidth() }

// Width 返回排版宽度。
func (t *Table) Width() int { return t.opts.Width }

// LineWidth 返回换行器测得的行宽。
func (t *Table) LineWidth(line int) float64 {
	t.checkLine("LineWidth", line, false)
	return t.lines[line].Width
}

// LineMax 返回不含行尾空白的行宽。
func (t *Table) LineMax(line int) float64 {
	t.checkLine("LineMax", line, false)
	return t.lines[line].Max
}

// LineForOffset 返回包含 offset 的行；offset 须在排版区间 [start,end] 内。
func (t *Table) LineForOffset(offset int) int {
	if offset < t.start || offset > t.end {
		panic(&RangeError{Op: "LineForOffset", Index: offset, Start: t.start, End: t.end, Len: t.end - t.start})
	}
	high, low := t.LineCount(), -1
	for high-low > 1 {
		guess := (high + low) / 2
		if t.lines[guess].Start > offset {
			high = guess
		} else {
			low = guess
		}
	}
	return max(low, 0)
}

// LineForVertical 返回包含纵坐标 y 的行；y 超出底部时返回最后一行，y 为负时 panic。
func (t *Table) LineForVertical(y int) int {
	if y < 0 {
		panic(&RangeError{Op: "LineForVertical", Index: y, Len: t.Height()})
	}
	high, low := t.LineCount(), -1
	for high-low > 1 {
		guess := (high + low) / 2
		if t.lines[guess].Top > y {
			high = guess
		} else {
			low = guess
		}
	}
	return max(low, 0)
}

// LineVisibleEnd 返回去掉行尾空格、制表符与换行后的行尾；最后一行原样返回。
func (t *Table) LineVisibleEnd(line int) int {
	t.checkLine("LineVisibleEnd", line, false)
	start, end := t.lines[line].Start, t.lines[line+1].Start
	if line == t.LineCount()-1 {
		return end
	}
	for ; end > start; end-- {
		c := t.text.RuneAt(end - 1)
		if c == charNewline {
			return end - 1
		}
		if !IsSpaceOrTab(c) {
			break
		}
	}
	return end
}

// LineLeft 返回行最左侧字形的横坐标，考虑对齐方式、段落方向与缩进。
func (t *Table) LineLeft(line int) float64 {
	t.checkLine("LineLeft", line, false)
	rec := t.lines[line]
	width := float64(t.opts.Width)
	indent := float64(rec.Indent)
	rtl := rec.Dir == DirRightToLeft
	switch t.opts.Align {
	case AlignOpposite:
		if rtl {
			return 0
		}
		return width - rec.Max
	case AlignCenter:
		left, right := indent, width
		if rtl {
			left, right = 0, width-indent
		}
		return left + math.Floor((right-left-rec.Max)/2)
	default:
		if rtl {
			return width - indent - rec.Max
		}
		return indent
	}
}

// LineRight 返回行最右侧字形的横坐标。
func (t *Table) LineRight(line int) float64 {
	return t.LineLeft(line) + t.LineMax(line)
}

// LineText 返回一行的显示文本：省略区间的首字符替换为省略号，其余替换为 U+FEFF。
func (t *Table) LineText(line int) string {
	t.checkLine("LineText", line, false)
	start, end := t.lines[line].Start, t.lines[line+1].Start
	buf := make([]rune, end-start)
	t.text.CopyRunes(buf, start, end)
	t.ellipsize(line, buf)
	return string(buf)
}

// DisplayText 返回排版区间的显示文本，省略规则同 LineText。
func (t *Table) DisplayText() string {
	var sb strings.Builder
	for i := 0; i < t.LineCount(); i++ {
		sb.WriteString(t.LineText(i))
	}
	return sb.String()
}

func (t *Table) ellipsize(line int, buf []rune) {
	rec := t.lines[line]
	if rec.EllipsisCount == 0 {
		return
	}
	s := rec.EllipsisStart
	for i := range rec.EllipsisCount {
		c := charZWNBSP
		if i == 0 {
			c = t.opts.Ellipsize.ellipsisRune()
		}
		buf[s+i] = c
	}
}
