package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/papyrus-text/binding"
	"github.com/ByLCY/papyrus-text/layout"
	"github.com/ByLCY/papyrus-text/style"
	"github.com/ByLCY/papyrus-text/styled"
)

// FaceResolver 按名字查找字体，供 face 命令使用。
type FaceResolver func(name string) (layout.Face, error)

// CompileOptions 控制编译过程。
type CompileOptions struct {
	// Data 用于替换字符串中的 ${path} 占位符。
	Data any
	// Faces 为 nil 时 face 命令会报错。
	Faces FaceResolver
	// Resolution 用于把带单位的长度换算成像素，0 表示 layout.DefaultResolution。
	Resolution float64
	// FontSize 是基础字号（像素），用于 "1.5x" 形式的行高。
	FontSize float64
	// Strict 为 true 时，无法解析且没有默认值的占位符会导致编译失败。
	Strict bool
}

// Compiled 是编译后的一段文本。
type Compiled struct {
	Name string
	Text *styled.Text
	// Attrs 是 meta 段与 text 段顶层的赋值，text 段的同名键覆盖 meta 段。
	Attrs map[string]string
}

// Compile 编译名为 name 的 text 段；name 为空时取第一个。
func Compile(doc *Document, name string, opts CompileOptions) (*Compiled, error) {
	sec := doc.Text(name)
	if sec == nil {
		if name == "" {
			return nil, fmt.Errorf("dsl: 文档中缺少 text 段落")
		}
		return nil, fmt.Errorf("dsl: 找不到 text 段落 %s", name)
	}

	c := &compiler{opts: opts, attrs: map[string]string{}}
	if c.opts.Resolution <= 0 {
		c.opts.Resolution = layout.DefaultResolution
	}
	if meta := doc.Meta(); meta != nil {
		if err := c.assignments(meta.Block); err != nil {
			return nil, err
		}
	}
	if err := c.block(sec.Block, true); err != nil {
		return nil, fmt.Errorf("dsl: 编译 text %s 失败: %w", sec.Name, err)
	}
	return &Compiled{Name: sec.Name, Text: c.b.Build(), Attrs: c.attrs}, nil
}

type compiler struct {
	opts  CompileOptions
	b     styled.Builder
	attrs map[string]string
}

func (c *compiler) assignments(blk *Block) error {
	for _, stmt := range blk.Statements {
		if stmt.Assignment == nil {
			return fmt.Errorf("dsl: meta 段只能包含赋值")
		}
		if err := c.assign(stmt.Assignment); err != nil {
			return fmt.Errorf("dsl: %w", err)
		}
	}
	return nil
}

func (c *compiler) assign(a *Assignment) error {
	vals, err := c.valueStrings(a.Value)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
	}
	c.attrs[a.Key] = strings.Join(vals, " ")
	return nil
}

func (c *compiler) interpolate(s string) (string, error) {
	if c.opts.Strict {
		return binding.Expand(s, c.opts.Data)
	}
	return binding.Interpolate(s, c.opts.Data), nil
}

// block 依次处理语句；只有 text 段顶层允许赋值。
func (c *compiler) block(blk *Block, top bool) error {
	if blk == nil {
		return nil
	}
	for _, stmt := range blk.Statements {
		switch {
		case stmt.Assignment != nil:
			if !top {
				return fmt.Errorf("赋值 %s 只能出现在 text 段顶层", stmt.Assignment.Key)
			}
			if err := c.assign(stmt.Assignment); err != nil {
				return err
			}
		case stmt.Text != nil:
			s, err := c.interpolate(string(stmt.Text.Value))
			if err != nil {
				return fmt.Errorf("%s: %w", stmt.Text.Pos, err)
			}
			c.b.Append(s)
		case stmt.Command != nil:
			if err := c.command(stmt.Command); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) command(cmd *Command) error {
	start := c.b.Len()
	if cmd.Name == "image" {
		if cmd.Block != nil {
			return fmt.Errorf("%s: image 不能带内容块", cmd.Pos)
		}
		nums, err := c.numbers(cmd, 3)
		if err != nil {
			return err
		}
		rep, err := style.NewReplacement(nums[0], int(nums[1]), int(nums[2]))
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		c.b.Append(string(layout.ObjectReplacement))
		return c.b.SetSpan(rep, start, start+1)
	}

	spans, err := c.spans(cmd)
	if err != nil {
		return err
	}
	if err := c.block(cmd.Block, false); err != nil {
		return err
	}
	for _, sp := range spans {
		if err := c.b.SetSpan(sp, start, c.b.Len()); err != nil {
			return fmt.Errorf("%s: %w", cmd.Pos, err)
		}
	}
	return nil
}

// spans 把命令参数转换为标注。
func (c *compiler) spans(cmd *Command) ([]any, error) {
	switch cmd.Name {
	case "size":
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("%s: size 需要 1 个参数", cmd.Pos)
		}
		arg := cmd.Args[0].Value
		if factor, ok := strings.CutSuffix(arg, "x"); ok || isBareNumber(arg) {
			f, err := strconv.ParseFloat(factor, 64)
			if err != nil || f <= 0 {
				return nil, fmt.Errorf("%s: 非法的字号倍数 %q", cmd.Pos, arg)
			}
			return []any{style.RelativeSize{Factor: f}}, nil
		}
		l, err := layout.ParseLength(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		return []any{style.AbsoluteSize{Size: l.Pixels(c.opts.Resolution)}}, nil

	case "face":
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("%s: face 需要 1 个参数", cmd.Pos)
		}
		if c.opts.Faces == nil {
			return nil, fmt.Errorf("%s: 未配置字体查找，无法使用 face", cmd.Pos)
		}
		name := cmd.Args[0].Value
		face, err := c.opts.Faces(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		return []any{style.Face{Name: name, Face: face}}, nil

	case "shift":
		px, err := c.pixels(cmd, cmd.Args)
		if err != nil {
			return nil, err
		}
		return []any{style.BaselineShift{Pixels: px}}, nil

	case "margin":
		return c.margin(cmd)

	case "tabs":
		if len(cmd.Args) == 0 {
			return nil, fmt.Errorf("%s: tabs 至少需要 1 个制表位", cmd.Pos)
		}
		out := make([]any, 0, len(cmd.Args))
		for _, arg := range cmd.Args {
			px, err := c.pixels(cmd, []*Lexeme{arg})
			if err != nil {
				return nil, err
			}
			out = append(out, style.TabStop{Offset: px})
		}
		return out, nil

	case "line-height":
		if len(cmd.Args) != 1 {
			return nil, fmt.Errorf("%s: line-height 需要 1 个参数", cmd.Pos)
		}
		spec, err := layout.ParseLineHeight(cmd.Args[0].Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		if spec.Kind == layout.LineHeightFactor && c.opts.FontSize <= 0 {
			return nil, fmt.Errorf("%s: 未设置基础字号，无法使用倍数行高", cmd.Pos)
		}
		px := spec.Pixels(c.opts.FontSize, c.opts.Resolution)
		if px <= 0 {
			return nil, fmt.Errorf("%s: 行高必须大于 0", cmd.Pos)
		}
		return []any{style.LineHeight{Height: px}}, nil
	}
	return nil, fmt.Errorf("%s: 未知命令 %q", cmd.Pos, cmd.Name)
}

// margin 解析 `margin first [rest] [lines N]`。
func (c *compiler) margin(cmd *Command) ([]any, error) {
	args := cmd.Args
	lines := -1
	if n := len(args); n >= 2 && args[n-2].Value == "lines" {
		v, err := strconv.Atoi(args[n-1].Value)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%s: 非法的行数 %q", cmd.Pos, args[n-1].Value)
		}
		lines = v
		args = args[:n-2]
	}
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%s: margin 需要 1 到 2 个长度", cmd.Pos)
	}
	first, err := c.pixels(cmd, args[:1])
	if err != nil {
		return nil, err
	}
	rest := first
	if len(args) == 2 {
		if rest, err = c.pixels(cmd, args[1:]); err != nil {
			return nil, err
		}
	}
	if lines >= 0 {
		return []any{style.LeadingMargin2{First: first, Rest: rest, Lines: lines}}, nil
	}
	return []any{style.LeadingMargin{First: first, Rest: rest}}, nil
}

func (c *compiler) pixels(cmd *Command, args []*Lexeme) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s: %s 需要 1 个长度", cmd.Pos, cmd.Name)
	}
	l, err := layout.ParseLength(args[0].Value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	return l.IntPixels(c.opts.Resolution), nil
}

func (c *compiler) numbers(cmd *Command, n int) ([]float64, error) {
	if len(cmd.Args) != n {
		return nil, fmt.Errorf("%s: %s 需要 %d 个数值", cmd.Pos, cmd.Name, n)
	}
	out := make([]float64, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		l, err := layout.ParseLength(arg.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Pos, err)
		}
		out = append(out, l.Pixels(c.opts.Resolution))
	}
	return out, nil
}

func isBareNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (c *compiler) valueStrings(val *Value) ([]string, error) {
	if val == nil {
		return nil, nil
	}
	items := []*Value{val}
	if val.Array != nil {
		items = val.Array.Values
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := c.valueString(item)
		if err != nil {
			return nil, err
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *compiler) valueString(val *Value) (string, error) {
	switch {
	case val == nil:
		return "", nil
	case val.String != nil:
		return c.interpolate(string(*val.String))
	case val.Number != nil:
		return *val.Number, nil
	case val.Expr != nil:
		var sb strings.Builder
		for _, part := range val.Expr.Parts {
			sb.WriteString(part.Value)
		}
		return sb.String(), nil
	default:
		return "", nil
	}
}
