package layout

import "slices"

// TabIncrement 是没有显式制表位时的默认间距（像素）。
const TabIncrement = 20

// TabStops 保存段落内的显式制表位，升序排列。
type TabStops struct {
	stops     []int
	increment int
}

// NewTabStops 收集 spans 的制表位，increment 用于显式制表位之后的默认间距。
func NewTabStops(increment int, spans []TabStopSpan) *TabStops {
	t := &TabStops{increment: increment}
	for _, s := range spans {
		t.stops = append(t.stops, s.TabStop())
	}
	slices.Sort(t.stops)
	return t
}

// NextTab 返回位置 h 之后的第一个制表位。
func (t *TabStops) NextTab(h float64) float64 {
	for _, s := range t.stops {
		if float64(s) > h {
			return float64(s)
		}
	}
	return nextDefaultStop(h, t.increment)
}

func nextDefaultStop(h float64, inc int) float64 {
	return float64(int((h+float64(inc))/float64(inc)) * inc)
}
