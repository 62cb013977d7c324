package layout

// DesiredWidth 返回不换行时最宽段落的宽度（不含换行符）。
func DesiredWidth(text TextSource, paint Paint, h Heuristic) float64 {
	if text == nil {
		return 0
	}
	widest := 0.0
	_ = defaultPool.With(func(mp *MeasuredParagraph) error {
		n := text.Len()
		for start := 0; start <= n; {
			end := indexRune(text, charNewline, start, n)
			if end < 0 {
				end = n
			}
			mp.SetPara(text, start, end, h)
			widest = max(widest, mp.AddStyleRun(paint, end-start, nil))
			if end == n {
				break
			}
			start = end + 1
		}
		return nil
	})
	return widest
}

// EllipsizeText 把单行文本截断到 avail 宽度以内，被省略部分用 where 模式的省略号代替。
// 文本本身能放下时原样返回；连省略号都放不下时返回空串。
func EllipsizeText(text string, paint Paint, avail float64, where TruncateAt, h Heuristic) string {
	src := NewText(text)
	out := text
	_ = defaultPool.With(func(mp *MeasuredParagraph) error {
		n := src.Len()
		mp.SetPara(src, 0, n, h)
		if mp.AddStyleRun(paint, n, nil) <= avail || where == TruncateNone {
			return nil
		}
		ellipsis := string(where.ellipsisRune())
		avail -= paint.MeasureText(ellipsis)

		left, right := 0, n
		switch {
		case avail < 0:
			// 全部省略
		case where == TruncateStart:
			right = n - mp.BreakText(n, false, avail)
		case where.elidesAtEnd() || where == TruncateMarquee:
			left = mp.BreakText(n, true, avail)
		default:
			right = n - mp.BreakText(n, false, avail/2)
			avail -= mp.Measure(right, n)
			left = mp.BreakText(right, true, avail)
		}
		if left == 0 && right == n {
			out = ""
			return nil
		}
		chars := mp.Chars()
		out = string(chars[:left]) + ellipsis + string(chars[right:])
		return nil
	})
	return out
}
