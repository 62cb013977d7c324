package layout

import "unicode"

// BreakClass 描述某字符之后能否断行以及原因。
type BreakClass int

const (
	BreakNone        BreakClass = iota
	BreakSpace                  // 空格、制表符、零宽空格
	BreakConditional            // '/' 或 '-'，其后不是数字
	BreakIdeograph              // 两个表意字符之间
)

func (b BreakClass) String() string {
	switch b {
	case BreakSpace:
		return "space"
	case BreakConditional:
		return "conditional"
	case BreakIdeograph:
		return "ideograph"
	default:
		return "none"
	}
}

const (
	charNewline = '\n'
	charTab     = '\t'
	charSpace   = ' '
	charZWSP    = '\u200b'
	charZWNBSP  = '\ufeff'

	// ObjectReplacement 占据被替换对象覆盖的字符位置。
	ObjectReplacement = '\ufffc'

	firstCJK = 0x2E80
)

// IsSpaceOrTab reports whether c is a plain space or a tab.
func IsSpaceOrTab(c rune) bool {
	return c == charSpace || c == charTab
}

// ClassifyBreak 判断在 c 之后是否存在断行机会。
// next 为同一样式段内的下一个字符，hasNext 为 false 表示 c 是该段最后一个字符。
// 这是一个刻意简化的启发式规则，不是 UAX #14。
func ClassifyBreak(c, next rune, hasNext bool) BreakClass {
	switch {
	case c == charSpace || c == charTab || c == charZWSP:
		return BreakSpace
	case c == '/' || c == '-':
		if !hasNext || !unicode.IsDigit(next) {
			return BreakConditional
		}
		return BreakNone
	case c >= firstCJK:
		if hasNext && IsIdeographic(c, true) && IsIdeographic(next, false) {
			return BreakIdeograph
		}
	}
	return BreakNone
}

// IsIdeographic 报告 c 是否为表意字符。
// includeNonStarters 为 false 时，排除不能出现在行首的小假名与长音符。
func IsIdeographic(c rune, includeNonStarters bool) bool {
	switch {
	case c >= 0x2E80 && c <= 0x2FFF:
		return true // CJK, KANGXI RADICALS, DESCRIPTION SYMBOLS
	case c == 0x3000:
		return true // IDEOGRAPHIC SPACE
	case c >= 0x3040 && c <= 0x309F:
		if !includeNonStarters {
			switch c {
			case 0x3041, 0x3043, 0x3045, 0x3047, 0x3049, 0x3063, 0x3083,
				0x3085, 0x3087, 0x308E, 0x3095, 0x3096, 0x309B, 0x309C,
				0x309D, 0x309E:
				return false
			}
		}
		return true // Hiragana
	case c >= 0x30A0 && c <= 0x30FF:
		if !includeNonStarters {
			switch c {
			case 0x30A0, 0x30A1, 0x30A3, 0x30A5, 0x30A7, 0x30A9, 0x30C3,
				0x30E3, 0x30E5, 0x30E7, 0x30EE, 0x30F5, 0x30F6, 0x30FB,
				0x30FC, 0x30FD, 0x30FE:
				return false
			}
		}
		return true // Katakana
	case c >= 0x3400 && c <= 0x4DB5:
		return true // CJK UNIFIED IDEOGRAPHS EXTENSION A
	case c >= 0x4E00 && c <= 0x9FBB:
		return true // CJK UNIFIED IDEOGRAPHS
	case c >= 0xF900 && c <= 0xFAD9:
		return true // CJK COMPATIBILITY IDEOGRAPHS
	case c >= 0xA000 && c <= 0xA48F:
		return true // YI SYLLABLES
	case c >= 0xA490 && c <= 0xA4CF:
		return true // YI RADICALS
	case c >= 0xFE62 && c <= 0xFE66:
		return true // SMALL PLUS SIGN to SMALL EQUALS SIGN
	case c >= 0xFF10 && c <= 0xFF19:
		return true // WIDE DIGITS
	}
	return false
}
