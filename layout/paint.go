package layout

// Face 为排版提供字体度量与逐字符前进宽度。
type Face interface {
	// Metrics 返回指定字号下的纵向度量（像素，基线为 0）。
	Metrics(size float64) FontMetrics
	// Advances 将 text 中每个字符的前进宽度写入 widths（长度与 text 相同），返回总宽度。
	// rtl 表示该段按从右到左书写。
	Advances(text []rune, rtl bool, size float64, widths []float64) float64
}

// Paint 是测量时使用的画笔状态，按值传递；样式标注在副本上修改。
type Paint struct {
	Face          Face
	Size          float64
	BaselineShift int
}

// Metrics 返回当前画笔的字体度量；没有字体时为零值。
func (p Paint) Metrics() FontMetrics {
	if p.Face == nil {
		return FontMetrics{}
	}
	return p.Face.Metrics(p.Size)
}

func (p Paint) advances(text []rune, rtl bool, widths []float64) float64 {
	if len(text) == 0 || p.Face == nil {
		clear(widths)
		return 0
	}
	return p.Face.Advances(text, rtl, p.Size, widths)
}

// MeasureText 返回 s 在该画笔下的总宽度。
func (p Paint) MeasureText(s string) float64 {
	runes := []rune(s)
	return p.advances(runes, false, make([]float64, len(runes)))
}
