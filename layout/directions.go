package layout

// DirectionRun 是一行内方向一致的一段，Start 相对行首。
type DirectionRun struct {
	Start  int  `json:"start"`
	Length int  `json:"length"`
	Level  int8 `json:"level"`
}

// RTL reports whether the run is drawn right to left.
func (r DirectionRun) RTL() bool { return r.Level&1 != 0 }

// lineDirections 计算一行的方向段，按视觉顺序（从左到右）排列。
//
// levels 与 chars 都以段落为基准，lstart 为行首在段落中的位置，n 为行长。
// 行尾与段落方向相反的空白会单独成段并取段落基础层级。
func lineDirections(dir Direction, levels []int8, chars []rune, lstart, n int) []DirectionRun {
	base := int8(0)
	if dir == DirRightToLeft {
		base = 1
	}
	if n == 0 {
		return []DirectionRun{{Start: 0, Length: 0, Level: base}}
	}
	lv := levels[lstart : lstart+n]

	visLen := n
	if last := lv[n-1]; last&1 != base&1 {
		visLen = visibleEnd(chars[lstart : lstart+n])
	}

	var runs []DirectionRun
	prev := 0
	for i := 1; i <= visLen; i++ {
		if i == visLen || lv[i] != lv[prev] {
			runs = append(runs, DirectionRun{Start: prev, Length: i - prev, Level: lv[prev]})
			prev = i
		}
	}
	if visLen < n {
		runs = append(runs, DirectionRun{Start: visLen, Length: n - visLen, Level: base})
	}
	if len(runs) == 1 && runs[0].Level == base {
		return runs
	}
	reorderRuns(runs)
	return runs
}

// visibleEnd 返回去掉行尾空格、制表符与换行后的长度。
func visibleEnd(chars []rune) int {
	i := len(chars)
	if i > 0 && chars[i-1] == charNewline {
		i--
	}
	for i > 0 && IsSpaceOrTab(chars[i-1]) {
		i--
	}
	return i
}

// reorderRuns 按双向算法 L2 规则就地重排：从最高层级到最低奇数层级，
// 依次翻转层级不低于当前值的每个连续段序列。
func reorderRuns(runs []DirectionRun) {
	maxLevel, minOdd := int8(0), int8(127)
	for _, r := range runs {
		maxLevel = max(maxLevel, r.Level)
		if r.Level&1 != 0 {
			minOdd = min(minOdd, r.Level)
		}
	}
	for level := maxLevel; level >= minOdd && level > 0; level-- {
		for i := 0; i < len(runs); {
			if runs[i].Level < level {
				i++
				continue
			}
			j := i
			for j < len(runs) && runs[j].Level >= level {
				j++
			}
			for lo, hi := i, j-1; lo < hi; lo, hi = lo+1, hi-1 {
				runs[lo], runs[hi] = runs[hi], runs[lo]
			}
			i = j
		}
	}
}

// singleRun 是简单行的方向：整行一个从左到右的段。
func singleRun(n int) []DirectionRun {
	return []DirectionRun{{Start: 0, Length: n, Level: 0}}
}
