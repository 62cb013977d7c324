package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/ByLCY/papyrus-text/config"
	"github.com/ByLCY/papyrus-text/dsl"
	"github.com/ByLCY/papyrus-text/fonts"
	"github.com/ByLCY/papyrus-text/layout"
	canvasrenderer "github.com/ByLCY/papyrus-text/renderer/canvas"
)

type cliOptions struct {
	input      string
	name       string
	configPath string
	output     string
	debug      string
	guides     bool
	strict     bool
	data       any
	flags      *flag.FlagSet

	width     string
	maxLines  int
	ellipsize string
	font      string
}

func main() {
	var opts cliOptions
	fs := flag.CommandLine
	fs.StringVarP(&opts.input, "in", "i", "examples/demo.ptxt", "标记文本路径")
	fs.StringVarP(&opts.name, "name", "n", "", "要排版的 text 段名，默认第一个")
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML 配置文件路径")
	fs.StringVarP(&opts.output, "out", "o", "", "PDF 预览输出路径")
	fs.StringVar(&opts.debug, "debug", "", "排版调试 JSON 输出路径")
	fs.BoolVar(&opts.guides, "guides", false, "在 PDF 中绘制行框与基线")
	fs.BoolVar(&opts.strict, "strict", false, "占位符无法解析时报错")
	dataJSON := fs.String("data", "", "绑定到标记文本的 JSON 数据")
	fs.StringVarP(&opts.width, "width", "w", "", "排版宽度，支持 px/mm/cm/in/pt")
	fs.IntVar(&opts.maxLines, "max-lines", 0, "最大行数")
	fs.StringVar(&opts.ellipsize, "ellipsize", "", "省略方式：none|start|middle|end|end-small|marquee")
	fs.StringVar(&opts.font, "font", "", "字体："+strings.Join(fonts.Names(), "|")+" 或字体文件路径")
	flag.Parse()
	opts.flags = fs

	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &opts.data); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	table, err := run(opts)
	if err != nil {
		log.Fatalf("排版失败: %v", err)
	}
	for i := range table.LineCount() {
		line := strings.TrimSuffix(table.LineText(i), "\n")
		fmt.Println(strings.ReplaceAll(line, "\ufeff", ""))
	}
	if opts.output != "" {
		fmt.Printf("已生成 PDF：%s\n", opts.output)
	}
}

// run 串联解析、配置、排版与渲染。
func run(opts cliOptions) (*layout.Table, error) {
	file, err := os.Open(opts.input)
	if err != nil {
		return nil, fmt.Errorf("无法打开标记文本 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析标记文本失败: %w", err)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	// 第一遍只为取得属性；字号与分辨率确定后再编译一次，使倍数行高按最终字号换算。
	compiled, err := compile(doc, opts, cfg)
	if err != nil {
		return nil, err
	}
	ignored, err := cfg.Apply(compiled.Attrs)
	if err != nil {
		return nil, err
	}
	for _, key := range ignored {
		log.Printf("忽略未知属性 %s", key)
	}
	if err := applyFlags(&cfg, opts); err != nil {
		return nil, err
	}
	if compiled, err = compile(doc, opts, cfg); err != nil {
		return nil, err
	}

	layoutOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	var r *canvasrenderer.Renderer
	var paint layout.Paint
	if opts.output != "" && cfg.Font != fonts.Basic {
		// 输出 PDF 时用 canvas 度量排版，保证预览与排版宽度一致。
		r = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir:    filepath.Dir(opts.input),
			Font:       cfg.Font,
			Size:       cfg.FontPixels(),
			Resolution: cfg.Resolution,
			Padding:    layout.Px(8),
			Guides:     opts.guides,
			Title:      compiled.Name,
		})
		if paint, err = r.Paint(); err != nil {
			return nil, err
		}
	} else {
		face, err := fonts.Lookup(cfg.Font)
		if err != nil {
			return nil, err
		}
		paint = layout.Paint{Face: face, Size: cfg.FontPixels()}
	}

	table, err := layout.Build(compiled.Text, paint, layoutOpts)
	if err != nil {
		return nil, fmt.Errorf("排版计算失败: %w", err)
	}

	if opts.debug != "" {
		if err := writeDebug(table, opts.debug); err != nil {
			return nil, err
		}
	}
	if opts.output != "" {
		if r == nil {
			return nil, fmt.Errorf("点阵字体 %s 不支持 PDF 输出", fonts.Basic)
		}
		if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
			return nil, fmt.Errorf("创建输出目录失败: %w", err)
		}
		pdfBytes, err := r.Render(table)
		if err != nil {
			return nil, fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
			return nil, fmt.Errorf("写入 PDF 文件失败: %w", err)
		}
	}
	return table, nil
}

func compile(doc *dsl.Document, opts cliOptions, cfg config.Config) (*dsl.Compiled, error) {
	return dsl.Compile(doc, opts.name, dsl.CompileOptions{
		Data:       opts.data,
		Faces:      lookupFace,
		Resolution: cfg.Resolution,
		FontSize:   cfg.FontPixels(),
		Strict:     opts.strict,
	})
}

func lookupFace(name string) (layout.Face, error) {
	face, err := fonts.Lookup(name)
	if err != nil {
		return nil, err
	}
	return face, nil
}

// applyFlags 用显式给出的命令行参数覆盖配置。
func applyFlags(cfg *config.Config, opts cliOptions) error {
	attrs := map[string]string{}
	if opts.flags.Changed("width") {
		attrs["width"] = opts.width
	}
	if opts.flags.Changed("max-lines") {
		attrs["max-lines"] = fmt.Sprint(opts.maxLines)
	}
	if opts.flags.Changed("ellipsize") {
		attrs["ellipsize"] = opts.ellipsize
	}
	if opts.flags.Changed("font") {
		attrs["font"] = opts.font
	}
	_, err := cfg.Apply(attrs)
	return err
}

func writeDebug(table *layout.Table, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(table, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
