package layout

// Ellipsizer 计算一行中需要被省略号替换的字符区间。
type Ellipsizer struct {
	Mode TruncateAt
	// Avail 是允许的最大行宽，省略号宽度计入其中。
	Avail float64
	// EllipsisWidth 是省略字符本身的宽度。
	EllipsisWidth float64
	// SingleLine 为 true 时才支持 Start 与 Middle 模式。
	SingleLine bool
}

// Elide 返回行内被省略区间的起点与长度（相对行首）。
//
// widths 是该行逐字符宽度，textWidth 是换行器测得的行宽。
// 行宽不超过 Avail 且未 force 时不省略；force 表示最大行数截断了后续内容，
// End 与 Marquee 模式下即使本行能放下也至少省略最后一个字符，Start 与 Middle 只按宽度省略。
func (e Ellipsizer) Elide(widths []float64, textWidth float64, force bool) (start, count int) {
	if textWidth <= e.Avail && !force {
		return 0, 0
	}
	n := len(widths)
	avail, ew := e.Avail, e.EllipsisWidth

	switch {
	case e.Mode == TruncateStart:
		if !e.SingleLine {
			return 0, 0
		}
		sum := 0.0
		i := n
		for ; i > 0; i-- {
			w := widths[i-1]
			if w+sum+ew > avail {
				break
			}
			sum += w
		}
		start, count = 0, i

	case e.Mode.elidesAtEnd() || e.Mode == TruncateMarquee:
		sum := 0.0
		i := 0
		for ; i < n; i++ {
			w := widths[i]
			if w+sum+ew > avail {
				break
			}
			sum += w
		}
		start, count = i, n-i
		if force && count == 0 && n > 0 {
			start, count = n-1, 1
		}

	case e.Mode == TruncateMiddle:
		if !e.SingleLine {
			return 0, 0
		}
		ravail := (avail - ew) / 2
		rsum := 0.0
		right := n
		for ; right > 0; right-- {
			w := widths[right-1]
			if w+rsum > ravail {
				break
			}
			rsum += w
		}
		lavail := avail - ew - rsum
		lsum := 0.0
		left := 0
		for ; left < right; left++ {
			w := widths[left]
			if w+lsum > lavail {
				break
			}
			lsum += w
		}
		start, count = left, right-left
	}
	if count == 0 {
		return 0, 0
	}
	return start, count
}
