package layout

import "sync"

const (
	poolSlots = 3
	// 超过该长度的段落缓冲不回收，避免池中长期占用大块内存。
	maxPooledLength = 1000
)

// ParagraphPool 是 MeasuredParagraph 的固定容量回收池，可被多个 goroutine 共用。
//
// Acquire 取最后一个非空槽位，Release 放入第一个空槽位；
// 缓冲容量达到 maxPooledLength 的实例直接丢弃。
type ParagraphPool struct {
	mu    sync.Mutex
	slots [poolSlots]*MeasuredParagraph
}

var defaultPool ParagraphPool

// Acquire 返回一个可用的段落缓冲，池空时新建。
func (p *ParagraphPool) Acquire() *MeasuredParagraph {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := len(p.slots) - 1; i >= 0; i-- {
		if m := p.slots[i]; m != nil {
			p.slots[i] = nil
			m.released = false
			return m
		}
	}
	return NewMeasuredParagraph()
}

// Release 归还 m。重复归还同一实例会 panic。
func (p *ParagraphPool) Release(m *MeasuredParagraph) {
	if m == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if m.released {
		panic("layout: MeasuredParagraph 被重复归还")
	}
	m.released = true
	retain := cap(m.chars) < maxPooledLength
	m.reset()
	if !retain {
		return
	}
	for i := range p.slots {
		if p.slots[i] == nil {
			p.slots[i] = m
			return
		}
	}
}

// With 借出一个段落缓冲执行 fn，返回后无论成功与否都归还。
func (p *ParagraphPool) With(fn func(*MeasuredParagraph) error) error {
	m := p.Acquire()
	defer p.Release(m)
	return fn(m)
}

// idle 返回当前空闲实例数，供测试使用。
func (p *ParagraphPool) idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, m := range p.slots {
		if m != nil {
			n++
		}
	}
	return n
}
