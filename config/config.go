// Package config 读取 YAML 排版配置，并与标记文本中的属性合并为 layout.Options。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/papyrus-text/layout"
)

// Config 是配置文件的结构，键名同时用于标记文本的顶层赋值。
type Config struct {
	Width           layout.Length `yaml:"width"`
	Align           string        `yaml:"align"`
	SpacingMult     float64       `yaml:"spacing-mult"`
	SpacingAdd      layout.Length `yaml:"spacing-add"`
	IncludePad      bool          `yaml:"include-pad"`
	Direction       string        `yaml:"direction"`
	Locale          string        `yaml:"locale"`
	Ellipsize       string        `yaml:"ellipsize"`
	EllipsizedWidth layout.Length `yaml:"ellipsized-width"`
	MaxLines        int           `yaml:"max-lines"`
	Font            string        `yaml:"font"`
	FontSize        layout.Length `yaml:"font-size"`
	// Resolution 是每英寸像素数，用于换算 mm/pt 等单位。
	Resolution float64 `yaml:"resolution"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Width:       layout.Px(320),
		Align:       "normal",
		SpacingMult: 1,
		IncludePad:  true,
		Direction:   "firststrong-ltr",
		Ellipsize:   "none",
		Font:        "regular",
		FontSize:    layout.Px(16),
		Resolution:  layout.DefaultResolution,
	}
}

// Load 读取配置文件，文件中未出现的键保留默认值。
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: 读取配置 %s 失败: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: 解析配置 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Parse 在默认配置之上解析 YAML，未知的键会报错。
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	return cfg, nil
}

// Apply 按键名顺序用标记文本的属性覆盖配置；未识别的属性会被忽略并返回其键名。
func (c *Config) Apply(attrs map[string]string) (ignored []string, err error) {
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		val := attrs[key]
		switch key {
		case "width":
			c.Width, err = layout.ParseLength(val)
		case "align":
			c.Align = val
		case "spacing-mult":
			c.SpacingMult, err = strconv.ParseFloat(val, 64)
		case "spacing-add":
			c.SpacingAdd, err = layout.ParseLength(val)
		case "include-pad":
			c.IncludePad, err = strconv.ParseBool(val)
		case "direction":
			c.Direction = val
		case "locale":
			c.Locale = val
		case "ellipsize":
			c.Ellipsize = val
		case "ellipsized-width":
			c.EllipsizedWidth, err = layout.ParseLength(val)
		case "max-lines":
			c.MaxLines, err = strconv.Atoi(val)
		case "font":
			c.Font = val
		case "font-size":
			c.FontSize, err = layout.ParseLength(val)
		case "resolution":
			c.Resolution, err = strconv.ParseFloat(val, 64)
		default:
			ignored = append(ignored, key)
		}
		if err != nil {
			return nil, fmt.Errorf("config: 属性 %s=%q 非法: %w", key, val, err)
		}
	}
	return ignored, nil
}

func (c Config) resolution() float64 {
	if c.Resolution <= 0 {
		return layout.DefaultResolution
	}
	return c.Resolution
}

// FontPixels 返回以像素为单位的字号。
func (c Config) FontPixels() float64 { return c.FontSize.Pixels(c.resolution()) }

// Heuristic 解析方向策略；设置了 locale 时使用语言环境策略。
func (c Config) Heuristic() (layout.Heuristic, error) {
	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return layout.Heuristic{}, fmt.Errorf("%w: 无法解析语言 %q: %v", layout.ErrInvalidOptions, c.Locale, err)
		}
		return layout.LocaleHeuristic(tag), nil
	}
	return layout.ParseHeuristic(c.Direction)
}

// Options 把配置转换为 layout.Options 并校验。
func (c Config) Options() (layout.Options, error) {
	res := c.resolution()
	align, err := layout.ParseAlignment(strings.TrimSpace(c.Align))
	if err != nil {
		return layout.Options{}, err
	}
	ellipsize, err := layout.ParseTruncateAt(strings.TrimSpace(c.Ellipsize))
	if err != nil {
		return layout.Options{}, err
	}
	dir, err := c.Heuristic()
	if err != nil {
		return layout.Options{}, err
	}
	opts := layout.Options{
		Width:           c.Width.IntPixels(res),
		Align:           align,
		SpacingMult:     c.SpacingMult,
		SpacingAdd:      c.SpacingAdd.Pixels(res),
		IncludePad:      c.IncludePad,
		TextDir:         dir,
		Ellipsize:       ellipsize,
		EllipsizedWidth: c.EllipsizedWidth.IntPixels(res),
		MaxLines:        c.MaxLines,
	}
	if err := opts.Validate(); err != nil {
		return layout.Options{}, err
	}
	return opts, nil
}
