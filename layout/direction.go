package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Policy 决定段落基础方向的判定方式。
type Policy int

const (
	PolicyLTR Policy = iota
	PolicyRTL
	PolicyFirstStrongLTR // 首个强方向字符决定，未找到时为 LTR
	PolicyFirstStrongRTL // 首个强方向字符决定，未找到时为 RTL
	PolicyAnyRTLLTR      // 出现任一 RTL 强字符即为 RTL，否则 LTR
	PolicyLocale         // 由 Locale 的书写系统决定
)

// Heuristic 是方向判定策略，零值即 LTR。
type Heuristic struct {
	Policy Policy
	Locale language.Tag
}

var (
	LTR            = Heuristic{Policy: PolicyLTR}
	RTL            = Heuristic{Policy: PolicyRTL}
	FirstStrongLTR = Heuristic{Policy: PolicyFirstStrongLTR}
	FirstStrongRTL = Heuristic{Policy: PolicyFirstStrongRTL}
	AnyRTLLTR      = Heuristic{Policy: PolicyAnyRTLLTR}
)

// LocaleHeuristic 返回按 tag 的书写系统判定方向的策略。
func LocaleHeuristic(tag language.Tag) Heuristic {
	return Heuristic{Policy: PolicyLocale, Locale: tag}
}

var policyNames = map[Policy]string{
	PolicyLTR:            "ltr",
	PolicyRTL:            "rtl",
	PolicyFirstStrongLTR: "firststrong-ltr",
	PolicyFirstStrongRTL: "firststrong-rtl",
	PolicyAnyRTLLTR:      "anyrtl-ltr",
	PolicyLocale:         "locale",
}

func (h Heuristic) String() string {
	name, ok := policyNames[h.Policy]
	if !ok {
		return fmt.Sprintf("Policy(%d)", int(h.Policy))
	}
	if h.Policy == PolicyLocale {
		return name + ":" + h.Locale.String()
	}
	return name
}

// MarshalText is used by the debug snapshot.
func (h Heuristic) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// ParseHeuristic 解析 ltr、rtl、firststrong-ltr、firststrong-rtl、anyrtl-ltr 与 locale:<bcp47>。
func ParseHeuristic(s string) (Heuristic, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return FirstStrongLTR, nil
	}
	if rest, ok := strings.CutPrefix(v, "locale:"); ok {
		tag, err := language.Parse(rest)
		if err != nil {
			return Heuristic{}, fmt.Errorf("%w: 无法解析语言标签 %q: %v", ErrInvalidOptions, rest, err)
		}
		return LocaleHeuristic(tag), nil
	}
	for p, name := range policyNames {
		if name == v && p != PolicyLocale {
			return Heuristic{Policy: p}, nil
		}
	}
	return Heuristic{}, fmt.Errorf("%w: 未知的方向策略 %q", ErrInvalidOptions, s)
}

func (h Heuristic) valid() bool {
	_, ok := policyNames[h.Policy]
	return ok
}

// IsRTL 判定 chars 所在段落的基础方向是否为 RTL。
func (h Heuristic) IsRTL(chars []rune) bool {
	switch h.Policy {
	case PolicyLTR:
		return false
	case PolicyRTL:
		return true
	case PolicyFirstStrongLTR, PolicyFirstStrongRTL:
		for _, c := range chars {
			switch strongClassOrFormat(c) {
			case strongLTR:
				return false
			case strongRTL:
				return true
			}
		}
		return h.Policy == PolicyFirstStrongRTL
	case PolicyAnyRTLLTR:
		for _, c := range chars {
			if strongClass(c) == strongRTL {
				return true
			}
		}
		return false
	case PolicyLocale:
		return isRTLLocale(h.Locale)
	}
	return false
}

const (
	strongUnknown = iota
	strongLTR
	strongRTL
)

// strongClass 只识别 L、R、AL 三类强方向字符。
func strongClass(c rune) int {
	props, _ := bidi.LookupRune(c)
	switch props.Class() {
	case bidi.L:
		return strongLTR
	case bidi.R, bidi.AL:
		return strongRTL
	}
	return strongUnknown
}

// strongClassOrFormat 额外把 LRE/LRO/RLE/RLO 视为强方向。
func strongClassOrFormat(c rune) int {
	props, _ := bidi.LookupRune(c)
	switch props.Class() {
	case bidi.L, bidi.LRE, bidi.LRO:
		return strongLTR
	case bidi.R, bidi.AL, bidi.RLE, bidi.RLO:
		return strongRTL
	}
	return strongUnknown
}

var rtlScripts = map[string]bool{
	"Adlm": true, "Arab": true, "Hebr": true, "Mand": true, "Mend": true,
	"Nkoo": true, "Rohg": true, "Samr": true, "Syrc": true, "Thaa": true,
	"Yezi": true,
}

func isRTLLocale(tag language.Tag) bool {
	if tag == language.Und {
		return false
	}
	script, conf := tag.Script()
	if conf == language.No {
		return false
	}
	return rtlScripts[script.String()]
}

// firstRightToLeft 以下的字符都不需要双向算法。
const firstRightToLeft = 0x0590

// needsBidi 报告 chars 中是否存在可能需要双向处理的字符。
// 这是一个粗略的快速判断：U+0590 以上的任何字符都会触发完整计算。
func needsBidi(chars []rune) bool {
	for _, c := range chars {
		if c >= firstRightToLeft {
			return true
		}
	}
	return false
}

// ResolveDirection 决定段落方向与逐字符嵌入层级。
//
// easy 为 true 时不计算层级，levels 原样返回（长度不保证）；
// 否则 levels 被扩容并填入 len(chars) 个层级。
func ResolveDirection(h Heuristic, chars []rune, levels []int8) (dir Direction, out []int8, easy bool) {
	switch h.Policy {
	case PolicyLTR, PolicyFirstStrongLTR, PolicyAnyRTLLTR:
		if !needsBidi(chars) {
			return DirLeftToRight, levels, true
		}
	}
	dir = DirLeftToRight
	if h.IsRTL(chars) {
		dir = DirRightToLeft
	}
	levels = embeddingLevels(chars, dir, levels)
	return dir, levels, false
}

// embeddingLevels 以 dir 为段落方向计算每个字符的嵌入层级。
// 段落分隔符（B 类）切分出的每一段单独求解，分隔符本身取基础层级。
func embeddingLevels(chars []rune, dir Direction, levels []int8) []int8 {
	if cap(levels) < len(chars) {
		levels = make([]int8, len(chars))
	}
	levels = levels[:len(chars)]
	base := int8(0)
	if dir == DirRightToLeft {
		base = 1
	}
	start := 0
	for i, c := range chars {
		props, _ := bidi.LookupRune(c)
		if props.Class() != bidi.B {
			continue
		}
		segmentLevels(chars[start:i], base, levels[start:i])
		levels[i] = base
		start = i + 1
	}
	segmentLevels(chars[start:], base, levels[start:])
	return levels
}

// 段落方向通过前置 LRM/RLM 强制：DefaultDirection 只在没有强字符时生效。
const (
	markLTR = "\u200e"
	markRTL = "\u200f"
)

// segmentLevels 以 x/text/bidi 的排序结果确定每个字符的方向奇偶，
// 再按隐式规则 I1/I2 还原层级：偶数基础层级下经弱类型规则后仍为数字的字符取 base+2。
func segmentLevels(chars []rune, base int8, out []int8) {
	for i := range out {
		out[i] = base
	}
	if len(chars) == 0 {
		return
	}
	text := markLTR + string(chars)
	var opts []bidi.Option
	if base == 1 {
		text = markRTL + string(chars)
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	}
	const offset = 1

	var p bidi.Paragraph
	if _, err := p.SetString(text, opts...); err != nil {
		return
	}
	order, err := p.Order()
	if err != nil {
		return
	}
	numeric := numericChars(chars, base)
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, _ := run.Pos()
		n := utf8.RuneCountInString(run.String())
		rtl := run.Direction() == bidi.RightToLeft
		for j := start; j < start+n; j++ {
			k := j - offset
			if k < 0 || k >= len(out) {
				continue
			}
			switch {
			case rtl:
				out[k] = 1
			case base == 1, numeric[k]:
				out[k] = 2
			default:
				out[k] = 0
			}
		}
	}
}

// numericChars 按弱类型规则 W1-W7 求出每个字符解析后是否为 EN 或 AN。
// 显式嵌入符与 BN 按 X9 跳过，不参与相邻判断。
func numericChars(chars []rune, base int8) []bool {
	sos := bidi.L
	if base == 1 {
		sos = bidi.R
	}
	idx := make([]int, 0, len(chars))
	types := make([]bidi.Class, 0, len(chars))
	for i, c := range chars {
		props, _ := bidi.LookupRune(c)
		switch cls := props.Class(); cls {
		case bidi.LRE, bidi.RLE, bidi.LRO, bidi.RLO, bidi.PDF, bidi.BN:
		default:
			idx = append(idx, i)
			types = append(types, cls)
		}
	}

	// W1
	prev := sos
	for k, t := range types {
		if t == bidi.NSM {
			switch prev {
			case bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
				types[k] = bidi.ON
			default:
				types[k] = prev
			}
		}
		prev = types[k]
	}
	// W2, W3
	strong := sos
	for k, t := range types {
		switch t {
		case bidi.L, bidi.R, bidi.AL:
			strong = t
		case bidi.EN:
			if strong == bidi.AL {
				types[k] = bidi.AN
			}
		}
	}
	for k, t := range types {
		if t == bidi.AL {
			types[k] = bidi.R
		}
	}
	// W4
	for k := 1; k+1 < len(types); k++ {
		before, t, after := types[k-1], types[k], types[k+1]
		switch {
		case t == bidi.ES && before == bidi.EN && after == bidi.EN:
			types[k] = bidi.EN
		case t == bidi.CS && before == after && (before == bidi.EN || before == bidi.AN):
			types[k] = before
		}
	}
	// W5
	for k := 0; k < len(types); {
		if types[k] != bidi.ET {
			k++
			continue
		}
		end := k
		for end < len(types) && types[end] == bidi.ET {
			end++
		}
		if (k > 0 && types[k-1] == bidi.EN) || (end < len(types) && types[end] == bidi.EN) {
			for j := k; j < end; j++ {
				types[j] = bidi.EN
			}
		}
		k = end
	}
	// W7，W6 只产生 ON，不影响结果。
	strong = sos
	for k, t := range types {
		switch t {
		case bidi.L, bidi.R:
			strong = t
		case bidi.EN:
			if strong == bidi.L {
				types[k] = bidi.L
			}
		}
	}

	numeric := make([]bool, len(chars))
	for k, t := range types {
		numeric[idx[k]] = t == bidi.EN || t == bidi.AN
	}
	return numeric
}
