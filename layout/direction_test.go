package layout

import (
	"errors"
	"testing"

	"golang.org/x/text/language"
)

const hebrew = "שלום" // shalom

func TestHeuristicIsRTL(t *testing.T) {
	cases := []struct {
		name string
		h    Heuristic
		text string
		want bool
	}{
		{"ltr forced", LTR, hebrew, false},
		{"rtl forced", RTL, "abc", true},
		{"first strong latin", FirstStrongLTR, "123 abc " + hebrew, false},
		{"first strong hebrew", FirstStrongLTR, "123 " + hebrew + " abc", true},
		{"first strong none ltr", FirstStrongLTR, "123 ...", false},
		{"first strong none rtl", FirstStrongRTL, "123 ...", true},
		{"first strong rlo", FirstStrongLTR, "\u202eabc", true},
		{"any rtl", AnyRTLLTR, "abc def " + hebrew, true},
		{"any rtl none", AnyRTLLTR, "abc", false},
		{"any rtl ignores overrides", AnyRTLLTR, "\u202eabc", false},
		{"locale arabic", LocaleHeuristic(language.Arabic), "abc", true},
		{"locale hebrew", LocaleHeuristic(language.Hebrew), "abc", true},
		{"locale english", LocaleHeuristic(language.English), hebrew, false},
		{"locale und", LocaleHeuristic(language.Und), hebrew, false},
	}
	for _, c := range cases {
		if got := c.h.IsRTL([]rune(c.text)); got != c.want {
			t.Fatalf("%s: IsRTL = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestParseHeuristic(t *testing.T) {
	for _, s := range []string{"ltr", "rtl", "firststrong-ltr", "FirstStrong-RTL", "anyrtl-ltr"} {
		h, err := ParseHeuristic(s)
		if err != nil {
			t.Fatalf("ParseHeuristic(%q): %v", s, err)
		}
		back, err := ParseHeuristic(h.String())
		if err != nil || back != h {
			t.Fatalf("ParseHeuristic(%q) 不能还原: %v %v", s, back, err)
		}
	}
	h, err := ParseHeuristic("locale:he-IL")
	if err != nil {
		t.Fatalf("locale: %v", err)
	}
	if h.Policy != PolicyLocale || !h.IsRTL(nil) {
		t.Fatalf("he-IL 应判定为 RTL: %+v", h)
	}
	if h, _ := ParseHeuristic(""); h != FirstStrongLTR {
		t.Fatalf("空串应默认为 firststrong-ltr，实际 %s", h)
	}
	if _, err := ParseHeuristic("sideways"); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("未知策略应返回 ErrInvalidOptions，实际 %v", err)
	}
}

// TestEasyPathThresholdIsApproximate 记录 U+0590 快速路径只是近似判断：
// 阈值以上的任何字符（包括汉字）都会走完整的双向计算，阈值以下则一律视为简单文本。
func TestEasyPathThresholdIsApproximate(t *testing.T) {
	dir, _, easy := ResolveDirection(FirstStrongLTR, []rune("plain ascii"), nil)
	if !easy || dir != DirLeftToRight {
		t.Fatalf("纯 ASCII 应走简单路径: easy=%v dir=%s", easy, dir)
	}
	dir, levels, easy := ResolveDirection(FirstStrongLTR, []rune("中文"), nil)
	if easy {
		t.Fatalf("U+0590 以上的字符不应走简单路径")
	}
	if dir != DirLeftToRight || levels[0] != 0 || levels[1] != 0 {
		t.Fatalf("汉字应为 LTR 层级 0: dir=%s levels=%v", dir, levels)
	}
	if _, _, easy := ResolveDirection(RTL, []rune("abc"), nil); easy {
		t.Fatalf("RTL 策略永远不走简单路径")
	}
}

func TestEmbeddingLevels(t *testing.T) {
	chars := []rune("abc" + hebrew + "def")
	dir, levels, easy := ResolveDirection(FirstStrongLTR, chars, nil)
	if easy || dir != DirLeftToRight {
		t.Fatalf("期望非简单 LTR 段落: easy=%v dir=%s", easy, dir)
	}
	want := []int8{0, 0, 0, 1, 1, 1, 1, 0, 0, 0}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", levels, want)
		}
	}

	chars = []rune(hebrew + " abc")
	dir, levels, _ = ResolveDirection(FirstStrongLTR, chars, nil)
	if dir != DirRightToLeft {
		t.Fatalf("首个强字符为希伯来文，期望 RTL")
	}
	want = []int8{1, 1, 1, 1, 1, 2, 2, 2}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", levels, want)
		}
	}
}

func TestEmbeddingLevelsSplitAtParagraphSeparator(t *testing.T) {
	chars := []rune(hebrew + "\u2029abc")
	levels := embeddingLevels(chars, DirRightToLeft, nil)
	if levels[4] != 1 {
		t.Fatalf("段落分隔符应取基础层级 1，实际 %d", levels[4])
	}
	for i := 5; i < 8; i++ {
		if levels[i] != 2 {
			t.Fatalf("分隔符后的拉丁字母应为层级 2，实际 %v", levels)
		}
	}
}

func TestEmbeddingLevelsNumbersInsideRTL(t *testing.T) {
	// LTR 段落中夹在希伯来文之间的数字取层级 2，两侧空白随希伯来文取 1。
	chars := []rune("ab \u05d0\u05d1 12 \u05d2\u05d3 cd")
	dir, levels, _ := ResolveDirection(FirstStrongLTR, chars, nil)
	if dir != DirLeftToRight {
		t.Fatalf("首个强字符为拉丁字母，期望 LTR")
	}
	want := []int8{0, 0, 0, 1, 1, 1, 2, 2, 1, 1, 1, 0, 0, 0}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", levels, want)
		}
	}

	// 拉丁字母之后的数字按 W7 变为 L。
	levels = embeddingLevels([]rune("ab 12 \u05d0"), DirLeftToRight, nil)
	want = []int8{0, 0, 0, 0, 0, 0, 1}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", levels, want)
		}
	}

	// 阿拉伯字母之后的欧洲数字按 W2 变为 AN，小数点按 W4 并入数字。
	levels = embeddingLevels([]rune("ab \u0639\u0631 1.5"), DirLeftToRight, nil)
	want = []int8{0, 0, 0, 1, 1, 1, 2, 2, 2}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", levels, want)
		}
	}
}
