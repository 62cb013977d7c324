// Package style 提供常用的文本标注实现，可直接挂到 styled.Text 上参与排版。
package style

import (
	"fmt"
	"math"

	"github.com/ByLCY/papyrus-text/layout"
)

// RelativeSize 按比例缩放字号。
type RelativeSize struct {
	Factor float64
}

func (s RelativeSize) UpdateMeasureState(p *layout.Paint) { p.Size *= s.Factor }

// AbsoluteSize 把字号设为固定像素值。
type AbsoluteSize struct {
	Size float64
}

func (s AbsoluteSize) UpdateMeasureState(p *layout.Paint) { p.Size = s.Size }

// Face 切换字体。
type Face struct {
	Name string
	Face layout.Face
}

func (s Face) UpdateMeasureState(p *layout.Paint) {
	if s.Face != nil {
		p.Face = s.Face
	}
}

// BaselineShift 上下移动基线，负值向上。
type BaselineShift struct {
	Pixels int
}

func (s BaselineShift) UpdateMeasureState(p *layout.Paint) { p.BaselineShift += s.Pixels }

// Replacement 是固定尺寸的内嵌对象（如行内图片），覆盖的字符不参与测量。
type Replacement struct {
	Width float64
	// Ascent 为基线以上的高度（负值），Descent 为基线以下的高度。
	Ascent  int
	Descent int
}

// NewReplacement 校验尺寸后构造 Replacement。
func NewReplacement(width float64, ascent, descent int) (Replacement, error) {
	if width < 0 || math.IsNaN(width) {
		return Replacement{}, fmt.Errorf("style: 替换对象宽度非法: %g", width)
	}
	if ascent > 0 || descent < 0 {
		return Replacement{}, fmt.Errorf("style: 替换对象高度非法: ascent=%d descent=%d", ascent, descent)
	}
	return Replacement{Width: width, Ascent: ascent, Descent: descent}, nil
}

func (Replacement) UpdateMeasureState(*layout.Paint) {}

// Size 返回对象宽度；未设置高度时沿用字体度量。
func (r Replacement) Size(_ layout.Paint, _ layout.TextSource, _, _ int) (float64, layout.FontMetrics, bool) {
	if r.Ascent == 0 && r.Descent == 0 {
		return r.Width, layout.FontMetrics{}, false
	}
	return r.Width, layout.FontMetrics{
		Top:     r.Ascent,
		Ascent:  r.Ascent,
		Descent: r.Descent,
		Bottom:  r.Descent,
	}, true
}

// LeadingMargin 为段落首行与其余行设置不同的缩进。
type LeadingMargin struct {
	First int
	Rest  int
}

func (m LeadingMargin) LeadingMargin(first bool) int {
	if first {
		return m.First
	}
	return m.Rest
}

// LeadingMargin2 的首行缩进作用于从标注起点所在行开始的 Lines 行。
type LeadingMargin2 struct {
	First int
	Rest  int
	Lines int
}

func (m LeadingMargin2) LeadingMargin(first bool) int {
	if first {
		return m.First
	}
	return m.Rest
}

func (m LeadingMargin2) LeadingMarginLineCount() int { return m.Lines }

var (
	_ layout.LeadingMarginSpan  = LeadingMargin{}
	_ layout.LeadingMarginSpan2 = LeadingMargin2{}
)

// LineHeight 把所覆盖行的行高固定为 Height 像素，按原有上下比例分配。
type LineHeight struct {
	Height int
}

func (h LineHeight) ChooseHeight(_ layout.TextSource, _, _, _, _ int, fm *layout.FontMetrics) {
	origin := fm.Descent - fm.Ascent
	if origin <= 0 || h.Height <= 0 {
		return
	}
	ratio := float64(h.Height) / float64(origin)
	fm.Descent = int(math.Round(float64(fm.Descent) * ratio))
	fm.Ascent = fm.Descent - h.Height
}

// TabStop 在 Offset 处增加一个制表位。
type TabStop struct {
	Offset int
}

func (t TabStop) TabStop() int { return t.Offset }
