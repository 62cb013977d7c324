package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedConfiguration 表示选项组合不受支持，例如多行布局使用首部/中部省略。
	ErrUnsupportedConfiguration = errors.New("layout: 不支持的配置")
	// ErrInvalidOptions 表示选项本身取值非法。
	ErrInvalidOptions = errors.New("layout: 非法选项")
)

// RangeError 描述越界的行号、偏移或文本区间。
// 查询接口以 panic(*RangeError) 报告调用方的契约错误，BuildRange 则直接返回它。
type RangeError struct {
	Op    string
	Index int
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	if e.Start != 0 || e.End != 0 {
		return fmt.Sprintf("layout: %s 区间 [%d,%d) 越界 (长度 %d)", e.Op, e.Start, e.End, e.Len)
	}
	return fmt.Sprintf("layout: %s 索引 %d 越界 (长度 %d)", e.Op, e.Index, e.Len)
}

func checkRange(op string, start, end, length int) error {
	if start < 0 || end < start || end > length {
		return &RangeError{Op: op, Start: start, End: end, Len: length}
	}
	return nil
}
