package layout

import (
	"fmt"
	"math"
)

// Options 配置一次排版。
type Options struct {
	// Width 是换行宽度（像素）。
	Width int `json:"width"`
	Align Alignment `json:"align"`
	// SpacingMult 与 SpacingAdd 调整行距：额外行距 = 行高*(SpacingMult-1)+SpacingAdd。
	// SpacingMult 为 0 时按 1 处理，使零值 Options 可以直接使用。
	SpacingMult float64 `json:"spacingMult"`
	SpacingAdd  float64 `json:"spacingAdd"`
	// IncludePad 为 true 时首行使用 top、末行使用 bottom 代替 ascent/descent。
	IncludePad bool       `json:"includePad"`
	TextDir    Heuristic  `json:"textDir"`
	Ellipsize  TruncateAt `json:"ellipsize"`
	// EllipsizedWidth 是省略判定使用的可用宽度，为 0 时取 Width。
	EllipsizedWidth int `json:"ellipsizedWidth"`
	// MaxLines 限制可见行数，<= 0 表示不限制。
	MaxLines int `json:"maxLines"`
}

// DefaultOptions 返回单倍行距、首个强字符决定方向的默认配置。
func DefaultOptions(width int) Options {
	return Options{
		Width:       width,
		SpacingMult: 1,
		IncludePad:  true,
		TextDir:     FirstStrongLTR,
	}
}

// Validate 检查选项取值与组合。
func (o Options) Validate() error {
	if o.Width < 0 {
		return fmt.Errorf("%w: 宽度不能为负数 (%d)", ErrInvalidOptions, o.Width)
	}
	if o.EllipsizedWidth < 0 {
		return fmt.Errorf("%w: 省略宽度不能为负数 (%d)", ErrInvalidOptions, o.EllipsizedWidth)
	}
	if o.SpacingMult < 0 || math.IsNaN(o.SpacingMult) || math.IsNaN(o.SpacingAdd) {
		return fmt.Errorf("%w: 行距参数非法 (mult=%v add=%v)", ErrInvalidOptions, o.SpacingMult, o.SpacingAdd)
	}
	if _, ok := alignmentNames[o.Align]; !ok {
		return fmt.Errorf("%w: 未知的对齐方式 %d", ErrInvalidOptions, int(o.Align))
	}
	if _, ok := truncateNames[o.Ellipsize]; !ok {
		return fmt.Errorf("%w: 未知的省略模式 %d", ErrInvalidOptions, int(o.Ellipsize))
	}
	if !o.TextDir.valid() {
		return fmt.Errorf("%w: 未知的方向策略 %d", ErrInvalidOptions, int(o.TextDir.Policy))
	}
	if (o.Ellipsize == TruncateStart || o.Ellipsize == TruncateMiddle) && o.MaxLines != 1 {
		return fmt.Errorf("%w: %s 省略只支持单行布局 (maxLines=%d)", ErrUnsupportedConfiguration, o.Ellipsize, o.MaxLines)
	}
	return nil
}

func (o Options) maxLines() int {
	if o.MaxLines <= 0 {
		return math.MaxInt
	}
	return o.MaxLines
}

func (o Options) ellipsizedWidth() int {
	if o.EllipsizedWidth > 0 {
		return o.EllipsizedWidth
	}
	return o.Width
}

func (o Options) spacingMult() float64 {
	if o.SpacingMult == 0 {
		return 1
	}
	return o.SpacingMult
}
