// Package binding 把 JSON 风格的数据代入文本中的 ${path} 占位符。
package binding

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnresolved 表示占位符的路径在数据中不存在且没有默认值。
var ErrUnresolved = errors.New("binding: 无法解析占位符")

// 占位符形如 ${user.name}、${items[0].title} 或带默认值的 ${user.name|guest}；$${...} 输出字面量。
var exprPattern = regexp.MustCompile(`\$?\$\{([^}]+)\}`)

// Interpolate 将文本中的占位符替换为 data 中的值。
// 路径不存在时使用默认值；没有默认值则保留原占位符。
func Interpolate(text string, data any) string {
	out, _ := expand(text, data, false)
	return out
}

// Expand 与 Interpolate 相同，但遇到无法解析的占位符时返回 ErrUnresolved。
func Expand(text string, data any) (string, error) {
	return expand(text, data, true)
}

func expand(text string, data any, strict bool) (string, error) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		if strings.HasPrefix(match, "$$") {
			return match[1:]
		}
		expr := match[2 : len(match)-1]
		path, def, hasDef := strings.Cut(expr, "|")
		path = strings.TrimSpace(path)
		if path != "" {
			if val, ok := Resolve(data, path); ok {
				return format(val)
			}
		}
		if hasDef {
			return strings.TrimSpace(def)
		}
		missing = append(missing, path)
		return match
	})
	if strict && len(missing) > 0 {
		return out, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	return out, nil
}

// Resolve 按 a.b[0].c 形式的路径在 data 中取值。
func Resolve(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			if current, ok = descendMap(current, name); !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			if current, ok = descendArray(current, idx); !ok {
				return nil, false
			}
		}
	}
	return current, true
}

// parseSegment 拆出 name[1][2] 中的名字与下标。
func parseSegment(segment string) (string, []int, bool) {
	name, rest, _ := strings.Cut(segment, "[")
	if rest == "" {
		return name, nil, name != ""
	}
	var indexes []int
	rest = "[" + rest
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}

// format 输出值的文本形式；整数值的浮点数（JSON 数字）不带小数部分。
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
