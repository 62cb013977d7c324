// Package styled 提供不可变的带标注文本，实现 layout.Spanned。
package styled

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ByLCY/papyrus-text/layout"
)

// ErrNilSpan 表示试图挂一个 nil 标注。
var ErrNilSpan = errors.New("styled: 标注为空")

type entry struct {
	span       any
	start, end int
	priority   int
	seq        int
}

// Text 是构建完成的带标注文本，可被多个 goroutine 同时读取。
type Text struct {
	runes []rune
	spans []entry
}

// New 返回不带标注的文本。
func New(s string) *Text { return &Text{runes: []rune(s)} }

func (t *Text) Len() int          { return len(t.runes) }
func (t *Text) RuneAt(i int) rune { return t.runes[i] }

func (t *Text) CopyRunes(dst []rune, start, end int) {
	copy(dst, t.runes[start:end])
}

func (t *Text) String() string { return string(t.runes) }

// Spans 返回与 [start,end) 重叠的标注，按优先级从高到低、同优先级按挂载顺序排列。
//
// 非空区间只计严格重叠；空区间 [p,p) 返回覆盖或紧贴 p 的标注。
// 空标注 [q,q) 只要落在 [start,end] 内就会返回。
func (t *Text) Spans(start, end int) []layout.SpanRange {
	var out []layout.SpanRange
	for _, e := range t.spans {
		if e.start > end || e.end < start {
			continue
		}
		if e.start != e.end && start != end && (e.start == end || e.end == start) {
			continue
		}
		out = append(out, layout.SpanRange{Span: e.span, Start: e.start, End: e.end})
	}
	return out
}

// SpanCount 返回挂载的标注数量。
func (t *Text) SpanCount() int { return len(t.spans) }

// Builder 逐段追加文本并挂载标注，Build 之后可以继续使用而不影响已生成的 Text。
type Builder struct {
	runes []rune
	spans []entry
}

// Len 返回已追加的字符数。
func (b *Builder) Len() int { return len(b.runes) }

// Append 追加文本，返回它占用的区间。
func (b *Builder) Append(s string) (start, end int) {
	start = len(b.runes)
	b.runes = append(b.runes, []rune(s)...)
	return start, len(b.runes)
}

// SetSpan 以默认优先级 0 挂载标注。
func (b *Builder) SetSpan(span any, start, end int) error {
	return b.SetSpanPriority(span, start, end, 0)
}

// SetSpanPriority 挂载标注；优先级高的标注在查询结果中排在前面。
func (b *Builder) SetSpanPriority(span any, start, end, priority int) error {
	if span == nil {
		return ErrNilSpan
	}
	if start < 0 || end < start || end > len(b.runes) {
		return &layout.RangeError{Op: "SetSpan", Start: start, End: end, Len: len(b.runes)}
	}
	b.spans = append(b.spans, entry{
		span:     span,
		start:    start,
		end:      end,
		priority: priority,
		seq:      len(b.spans),
	})
	return nil
}

// Build 生成不可变的 Text。
func (b *Builder) Build() *Text {
	spans := slices.Clone(b.spans)
	slices.SortStableFunc(spans, func(x, y entry) int {
		if x.priority != y.priority {
			return y.priority - x.priority
		}
		return x.seq - y.seq
	})
	return &Text{runes: slices.Clone(b.runes), spans: spans}
}

// Wrap 追加文本并对其挂载一组标注，便于逐段构造。
func (b *Builder) Wrap(s string, spans ...any) error {
	start, end := b.Append(s)
	for _, sp := range spans {
		if err := b.SetSpan(sp, start, end); err != nil {
			return fmt.Errorf("styled: 挂载标注失败: %w", err)
		}
	}
	return nil
}
