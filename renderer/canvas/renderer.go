package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/papyrus-text/fonts"
	"github.com/ByLCY/papyrus-text/layout"
	"github.com/ByLCY/papyrus-text/renderer"
)

const guideStrokeWidth = 0.1

// Renderer draws a laid-out table via github.com/tdewolff/canvas.
// 排版使用像素，canvas 使用毫米，字体使用 pt，换算都以 Options.Resolution 为准。
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
	style  canvas.FontStyle
	faces  map[float64]*canvas.FontFace
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Face       = (*Face)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// BaseDir 用于解析相对字体路径。
	BaseDir string
	// Font 是 "embed:<name>"、内置字体名或字体文件路径，为空时使用 fonts.Default。
	Font string
	// Style 形如 "bold italic"。
	Style string
	// Size 是正文字号（像素）。
	Size float64
	// Resolution 是每英寸像素数，0 表示 layout.DefaultResolution。
	Resolution float64
	// Padding 是页面四周的留白。
	Padding layout.Length
	Color   string
	// Guides 为 true 时绘制每行的行框与基线。
	Guides bool
	Title  string
}

// NewRenderer creates a renderer using the given font name or path.
func NewRenderer(font string, size float64) *Renderer {
	return NewRendererWithOptions(Options{Font: font, Size: size})
}

// NewRendererWithOptions creates a renderer; the font is loaded lazily on first use.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Resolution <= 0 {
		opts.Resolution = layout.DefaultResolution
	}
	if opts.Size <= 0 {
		opts.Size = 16
	}
	return &Renderer{opts: opts, faces: map[float64]*canvas.FontFace{}}
}

// Paint 返回与渲染一致的画笔，供 layout.Build 使用。
func (r *Renderer) Paint() (layout.Paint, error) {
	face, err := r.Face()
	if err != nil {
		return layout.Paint{}, err
	}
	return layout.Paint{Face: face, Size: r.opts.Size}, nil
}

// Face 返回以 canvas 字体度量实现的 layout.Face。
func (r *Renderer) Face() (*Face, error) {
	if _, err := r.ensureFontFamily(); err != nil {
		return nil, err
	}
	return &Face{r: r}, nil
}

// Render renders the table into a single-page PDF sized to the layout.
func (r *Renderer) Render(table *layout.Table) ([]byte, error) {
	if table == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if _, err := r.ensureFontFamily(); err != nil {
		return nil, err
	}
	pad := r.toMm(r.opts.Padding.Pixels(r.opts.Resolution))
	width := r.toMm(float64(max(table.Width(), table.EllipsizedWidth()))) + 2*pad
	height := r.toMm(float64(table.Height())) + 2*pad
	width, height = math.Max(width, 1), math.Max(height, 1)

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(r.opts.Title, "", "", "", "papyrus-text")

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与排版结果保持左上角为原点

	if err := r.drawTable(ctx, table, pad, pad); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawTable(ctx *canvas.Context, table *layout.Table, x0, y0 float64) error {
	face, err := r.fontFace(r.opts.Size)
	if err != nil {
		return err
	}
	for line := range table.LineCount() {
		left := x0 + r.toMm(table.LineLeft(line))
		if r.opts.Guides {
			r.drawGuides(ctx, table, line, x0, y0)
		}
		content := visibleText(table.LineText(line))
		if content == "" {
			continue
		}
		baseline := y0 + r.toMm(float64(table.LineBaseline(line)))
		ctx.DrawText(left, baseline, canvas.NewTextLine(face, content, canvas.Left))
	}
	return nil
}

// drawGuides 绘制行框（行顶到行底）与基线。
func (r *Renderer) drawGuides(ctx *canvas.Context, table *layout.Table, line int, x0, y0 float64) {
	top := y0 + r.toMm(float64(table.LineTop(line)))
	h := r.toMm(float64(table.LineBottom(line) - table.LineTop(line)))
	w := r.toMm(math.Max(table.LineMax(line), 1))
	left := x0 + r.toMm(table.LineLeft(line))

	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(canvas.Hex("#9ec5fe"))
	ctx.SetStrokeWidth(guideStrokeWidth)
	ctx.DrawPath(left, top, canvas.Rectangle(w, h))

	baseline := y0 + r.toMm(float64(table.LineBaseline(line)))
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(w, 0)
	ctx.SetStrokeColor(canvas.Hex("#f1aeb5"))
	ctx.DrawPath(left, baseline, p)
}

// visibleText 去掉省略占位符与行尾换行。
func visibleText(s string) string {
	s = strings.TrimRight(s, "\n ")
	return strings.Map(func(r rune) rune {
		switch r {
		case '\ufeff':
			return -1
		case '\t':
			return ' '
		}
		return r
	}, s)
}

// fontFace 返回像素字号 px 对应的 canvas 字体面，按字号缓存。
func (r *Renderer) fontFace(px float64) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := r.faces[px]; ok {
		return face, nil
	}
	face := family.Face(r.toPt(px), r.textColor(), r.style, canvas.FontNormal)
	r.faces[px] = face
	return face, nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}

	style := parseFontStyle(r.opts.Style)
	data, err := r.loadFontBytes(r.opts.Font)
	if err != nil {
		return nil, err
	}
	name := r.opts.Font
	if name == "" {
		name = fonts.Default
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.family, r.style = family, style
	return family, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if src == "" {
		return fonts.Load(fonts.Default)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	if data, err := fonts.Load(src); err == nil {
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) && r.opts.BaseDir != "" {
		path = filepath.Join(r.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func (r *Renderer) textColor() color.Color {
	if r.opts.Color == "" {
		return canvas.Hex("#1e1e1e")
	}
	return canvas.Hex(r.opts.Color)
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	var result canvas.FontStyle
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	default:
		result = canvas.FontRegular
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// toMm 将像素转换为毫米。
func (r *Renderer) toMm(px float64) float64 { return px * 25.4 / r.opts.Resolution }

// toPx 将毫米转换为像素。
func (r *Renderer) toPx(mm float64) float64 { return mm * r.opts.Resolution / 25.4 }

// toPt 将像素转换为点(pt)。
func (r *Renderer) toPt(px float64) float64 { return r.toMm(px) * layout.MmToPt }

// Face 用 canvas 的字体度量实现 layout.Face，使排版与 PDF 预览的宽度一致。
type Face struct {
	r *Renderer
}

// Metrics 返回像素字号 size 下的整数度量。
func (f *Face) Metrics(size float64) layout.FontMetrics {
	if size <= 0 || math.IsNaN(size) {
		return layout.FontMetrics{}
	}
	face, err := f.r.fontFace(size)
	if err != nil {
		return layout.FontMetrics{}
	}
	m := face.Metrics()
	fm := layout.FontMetrics{
		Ascent:  -int(math.Ceil(f.r.toPx(m.Ascent))),
		Descent: int(math.Ceil(f.r.toPx(m.Descent))),
	}
	fm.Top, fm.Bottom = fm.Ascent, fm.Descent
	return fm
}

// Advances 逐字符写入前进宽度。每个字符的宽度取“前一字符+本字符”的宽度减去前一字符，以计入字距。
func (f *Face) Advances(text []rune, rtl bool, size float64, widths []float64) float64 {
	if size <= 0 || math.IsNaN(size) {
		clear(widths[:len(text)])
		return 0
	}
	face, err := f.r.fontFace(size)
	if err != nil {
		clear(widths[:len(text)])
		return 0
	}
	total := 0.0
	prev := rune(-1)
	for i, c := range text {
		if unicode.IsControl(c) || c == '\ufeff' || c == '\u200b' {
			widths[i] = 0
			prev = -1
			continue
		}
		var mm float64
		switch {
		case prev < 0:
			mm = face.TextWidth(string(c))
		case rtl:
			mm = face.TextWidth(string([]rune{c, prev})) - face.TextWidth(string(prev))
		default:
			mm = face.TextWidth(string([]rune{prev, c})) - face.TextWidth(string(prev))
		}
		widths[i] = f.r.toPx(mm)
		total += widths[i]
		prev = c
	}
	return total
}
