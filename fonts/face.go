// Package fonts 提供内置字体，并把 x/image 的字体适配为 layout.Face。
package fonts

import (
	"fmt"
	"math"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/papyrus-text/layout"
)

// Face 实现 layout.Face。矢量字体按字号缓存 font.Face；点阵字体只有一个尺寸，按比例缩放。
// 所有方法都可以被并发调用。
type Face struct {
	name string

	mu     sync.Mutex
	src    *opentype.Font
	buf    sfnt.Buffer
	sized  map[float64]font.Face
	bitmap font.Face
	// bitmapSize 是点阵字体的原始像素高度。
	bitmapSize float64
}

var _ layout.Face = (*Face)(nil)

// Parse 解析 TTF/OTF 数据。
func Parse(name string, data []byte) (*Face, error) {
	src, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fonts: 解析字体 %s 失败: %w", name, err)
	}
	return &Face{name: name, src: src, sized: map[float64]font.Face{}}, nil
}

// NewBitmap 包装一个固定尺寸的字体，size 是它的原始像素高度。
func NewBitmap(name string, face font.Face, size float64) *Face {
	return &Face{name: name, bitmap: face, bitmapSize: size}
}

func (f *Face) Name() string { return f.name }

// faceAt 返回指定像素字号的 font.Face 与额外的缩放比例，调用方需持有锁。
func (f *Face) faceAt(size float64) (font.Face, float64, error) {
	if f.bitmap != nil {
		return f.bitmap, size / f.bitmapSize, nil
	}
	if face, ok := f.sized[size]; ok {
		return face, 1, nil
	}
	face, err := opentype.NewFace(f.src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("fonts: 创建 %s@%g 失败: %w", f.name, size, err)
	}
	f.sized[size] = face
	return face, 1, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Metrics 返回字号 size（像素）下的整数度量，ascent/top 为负值。
func (f *Face) Metrics(size float64) layout.FontMetrics {
	if size <= 0 || math.IsNaN(size) {
		return layout.FontMetrics{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, scale, err := f.faceAt(size)
	if err != nil {
		return layout.FontMetrics{}
	}
	m := face.Metrics()
	fm := layout.FontMetrics{
		Ascent:  -int(math.Ceil(toFloat(m.Ascent) * scale)),
		Descent: int(math.Ceil(toFloat(m.Descent) * scale)),
	}
	fm.Top, fm.Bottom = fm.Ascent, fm.Descent
	if f.src != nil {
		ppem := fixed.Int26_6(math.Round(size * 64))
		if b, err := f.src.Bounds(&f.buf, ppem, font.HintingNone); err == nil {
			fm.Top = min(fm.Top, int(math.Floor(toFloat(b.Min.Y))))
			fm.Bottom = max(fm.Bottom, int(math.Ceil(toFloat(b.Max.Y))))
		}
	}
	return fm
}

// Advances 逐字符测量并写入 widths，返回总宽度。控制字符宽度为 0，相邻字符的字距计入后一个字符。
func (f *Face) Advances(text []rune, rtl bool, size float64, widths []float64) float64 {
	if size <= 0 || math.IsNaN(size) {
		clear(widths[:len(text)])
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, scale, err := f.faceAt(size)
	if err != nil {
		clear(widths[:len(text)])
		return 0
	}

	total := 0.0
	prev := rune(-1)
	for i, r := range text {
		if unicode.IsControl(r) || r == '\ufeff' || r == '\u200b' {
			widths[i] = 0
			prev = -1
			continue
		}
		adv, _ := face.GlyphAdvance(r)
		w := toFloat(adv)
		if prev >= 0 {
			if rtl {
				w += toFloat(face.Kern(r, prev))
			} else {
				w += toFloat(face.Kern(prev, r))
			}
		}
		w *= scale
		widths[i] = w
		total += w
		prev = r
	}
	return total
}
