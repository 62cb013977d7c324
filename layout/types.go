package layout

import (
	"fmt"
	"strings"
)

// 该文件定义排版引擎共用的基础类型：方向、对齐、省略模式与字体度量。

// Direction 表示段落或行的基础书写方向。
type Direction int

const (
	DirLeftToRight Direction = 1
	DirRightToLeft Direction = -1
)

func (d Direction) String() string {
	if d == DirRightToLeft {
		return "rtl"
	}
	return "ltr"
}

// MarshalText lets Direction appear as "ltr"/"rtl" in debug JSON.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Alignment 控制行在可用宽度内的水平位置。
type Alignment int

const (
	AlignNormal Alignment = iota
	AlignOpposite
	AlignCenter
)

var alignmentNames = map[Alignment]string{
	AlignNormal:   "normal",
	AlignOpposite: "opposite",
	AlignCenter:   "center",
}

func (a Alignment) String() string {
	if name, ok := alignmentNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Alignment(%d)", int(a))
}

// MarshalText is used by the debug snapshot.
func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAlignment 接受 normal/opposite/center，大小写不敏感；空串视为 normal。
func ParseAlignment(s string) (Alignment, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return AlignNormal, nil
	}
	for a, name := range alignmentNames {
		if name == v {
			return a, nil
		}
	}
	return AlignNormal, fmt.Errorf("%w: 未知的对齐方式 %q", ErrInvalidOptions, s)
}

// TruncateAt 选择超出可用宽度时省略号出现的位置。
type TruncateAt int

const (
	TruncateNone TruncateAt = iota
	TruncateStart
	TruncateMiddle
	TruncateEnd
	TruncateMarquee
	TruncateEndSmall
)

var truncateNames = map[TruncateAt]string{
	TruncateNone:     "none",
	TruncateStart:    "start",
	TruncateMiddle:   "middle",
	TruncateEnd:      "end",
	TruncateMarquee:  "marquee",
	TruncateEndSmall: "end-small",
}

func (t TruncateAt) String() string {
	if name, ok := truncateNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TruncateAt(%d)", int(t))
}

// MarshalText is used by the debug snapshot.
func (t TruncateAt) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ParseTruncateAt 解析 none/start/middle/end/marquee/end-small。
func ParseTruncateAt(s string) (TruncateAt, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return TruncateNone, nil
	}
	for t, name := range truncateNames {
		if name == v {
			return t, nil
		}
	}
	return TruncateNone, fmt.Errorf("%w: 未知的省略模式 %q", ErrInvalidOptions, s)
}

// ellipsisRune 返回该模式使用的省略字符。
func (t TruncateAt) ellipsisRune() rune {
	if t == TruncateEndSmall {
		return '\u2025'
	}
	return '\u2026'
}

// elidesAtEnd 报告该模式是否从行尾省略（End 与 EndSmall 行为一致）。
func (t TruncateAt) elidesAtEnd() bool {
	return t == TruncateEnd || t == TruncateEndSmall
}

// FontMetrics 以像素整数记录字体的纵向度量，基线为 0，向上为负。
type FontMetrics struct {
	Top     int `json:"top"`
	Ascent  int `json:"ascent"`
	Descent int `json:"descent"`
	Bottom  int `json:"bottom"`
}

// Merge 取两组度量的并集：top/ascent 取较小值，descent/bottom 取较大值。
func (m *FontMetrics) Merge(o FontMetrics) {
	m.Top = min(m.Top, o.Top)
	m.Ascent = min(m.Ascent, o.Ascent)
	m.Descent = max(m.Descent, o.Descent)
	m.Bottom = max(m.Bottom, o.Bottom)
}

// IsZero reports whether all four fields are zero.
func (m FontMetrics) IsZero() bool {
	return m == FontMetrics{}
}

// shift 按基线偏移调整度量：负值抬高 ascent/top，正值压低 descent/bottom。
func (m *FontMetrics) shift(baseline int) {
	if baseline < 0 {
		m.Ascent += baseline
		m.Top += baseline
		return
	}
	m.Descent += baseline
	m.Bottom += baseline
}
