package fonts

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// Basic 是 7x13 点阵字体的名字，度量按字号线性缩放，适合需要确定结果的场景。
const Basic = "basic"

// Default 是未指定字体时使用的名字。
const Default = "regular"

var builtin = map[string][]byte{
	"regular":     goregular.TTF,
	"bold":        gobold.TTF,
	"italic":      goitalic.TTF,
	"bold-italic": gobolditalic.TTF,
	"medium":      gomedium.TTF,
	"mono":        gomono.TTF,
	"mono-bold":   gomonobold.TTF,
	"smallcaps":   gosmallcaps.TTF,
}

var (
	mu     sync.Mutex
	loaded = map[string]*Face{}
)

// Names 返回所有内置字体名，已排序。
func Names() []string {
	names := []string{Basic}
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load 返回内置字体的字节数据，name 可写为 "embed:mono" 或直接 "mono"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(name, "embed:")
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("fonts: 未知的内置字体 %s", name)
	}
	return data, nil
}

// Lookup 返回名字对应的字体，同名字体只解析一次。
//
// 名字可以是内置字体名、"embed:<内置字体名>"，或 TTF/OTF 文件路径。
func Lookup(name string) (*Face, error) {
	if name == "" {
		name = Default
	}
	mu.Lock()
	defer mu.Unlock()
	if f, ok := loaded[name]; ok {
		return f, nil
	}

	var (
		f   *Face
		err error
	)
	switch clean := strings.TrimPrefix(name, "embed:"); {
	case clean == Basic:
		f = NewBitmap(Basic, basicfont.Face7x13, float64(basicfont.Face7x13.Height))
	case builtin[clean] != nil:
		f, err = Parse(clean, builtin[clean])
	default:
		var data []byte
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("fonts: 读取字体 %s 失败: %w", name, err)
		}
		f, err = Parse(name, data)
	}
	if err != nil {
		return nil, err
	}
	loaded[name] = f
	return f, nil
}
