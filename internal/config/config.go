package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. FRAMEBLEND_OUTPUT_DIR.
const EnvPrefix = "FRAMEBLEND"

const (
	DefaultIntermediate = 3
	DefaultPadding      = 2
	DefaultQuality      = 85
	DefaultDPI          = 150
)

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type OutputConfig struct {
	Dir      string  `yaml:"dir"`
	Prefix   string  `yaml:"prefix"`
	Ext      string  `yaml:"ext"`
	Padding  int     `yaml:"padding"`
	Quality  float32 `yaml:"quality"`
	Lossless bool    `yaml:"lossless"`
}

type KeyframeConfig struct {
	Path string `yaml:"path"`
	// Page is 1-based and only meaningful for PDF keyframes.
	Page int    `yaml:"page"`
	ID   string `yaml:"id"`
}

type BlendConfig struct {
	Keyframes    []KeyframeConfig `yaml:"keyframes" ignored:"true"`
	Intermediate *int             `yaml:"intermediate"`
	// Overrides maps a keyframe id to the intermediate-frame count of the
	// transition starting at that keyframe.
	Overrides  map[string]int `yaml:"overrides"`
	Easing     string         `yaml:"easing"`
	ColorSpace string         `yaml:"color_space" split_words:"true"`
	DPI        int            `yaml:"dpi"`
	Output     OutputConfig   `yaml:"output"`
	Log        LogConfig      `yaml:"log"`
}

type ConvertConfig struct {
	Dir      string    `yaml:"dir"`
	Exts     []string  `yaml:"exts"`
	Quality  float32   `yaml:"quality"`
	Lossless *bool     `yaml:"lossless"`
	Workers  int       `yaml:"workers"`
	Log      LogConfig `yaml:"log"`
}

type OptimizeConfig struct {
	Dir         string    `yaml:"dir"`
	BackupDir   string    `yaml:"backup_dir" split_words:"true"`
	Ext         string    `yaml:"ext"`
	Quality     float32   `yaml:"quality"`
	KeepBackups *bool     `yaml:"keep_backups" split_words:"true"`
	Workers     int       `yaml:"workers"`
	Log         LogConfig `yaml:"log"`
}

type SVGPathConfig struct {
	Input       string    `yaml:"input"`
	ID          string    `yaml:"id"`
	Output      string    `yaml:"output"`
	Preview     string    `yaml:"preview"`
	PreviewSize int       `yaml:"preview_size" split_words:"true"`
	Log         LogConfig `yaml:"log"`
}

// Load fills dst from the YAML file at path (skipped when path is empty)
// and then from FRAMEBLEND_* environment variables. Callers run Verify
// after applying command-line flags.
func Load(path string, dst interface{}) error {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, dst); err != nil {
		return fmt.Errorf("env config: %w", err)
	}
	return nil
}

// Verify checks the blend config and sets defaults.
func (c *BlendConfig) Verify() error {
	if c == nil {
		return errors.New("cannot verify config, config is nil")
	}

	if c.Intermediate == nil {
		def := DefaultIntermediate
		c.Intermediate = &def
	}
	if *c.Intermediate < 0 {
		return fmt.Errorf("intermediate must be >= 0, got %d", *c.Intermediate)
	}
	for id, n := range c.Overrides {
		if n < 0 {
			return fmt.Errorf("override %q must be >= 0, got %d", id, n)
		}
	}

	for i, kf := range c.Keyframes {
		if kf.Path == "" {
			return fmt.Errorf("keyframe %d: missing path", i+1)
		}
		if kf.Page < 0 {
			return fmt.Errorf("keyframe %d: page must be >= 1", i+1)
		}
	}

	if c.Easing == "" {
		c.Easing = "linear"
	}
	if c.ColorSpace == "" {
		c.ColorSpace = "srgb"
	}
	if c.DPI == 0 {
		c.DPI = DefaultDPI
	}

	return c.Output.verify()
}

func (o *OutputConfig) verify() error {
	if o.Dir == "" {
		return errors.New("missing output dir in config")
	}
	if o.Ext == "" {
		o.Ext = ".png"
	}
	o.Ext = normalizeExt(o.Ext)
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Padding < 0 {
		return fmt.Errorf("padding must be >= 0, got %d", o.Padding)
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be in 0..100, got %.0f", o.Quality)
	}
	return nil
}

func (c *ConvertConfig) Verify() error {
	if c.Dir == "" {
		return errors.New("missing input dir in config")
	}
	if len(c.Exts) == 0 {
		c.Exts = []string{".png"}
	}
	for i, ext := range c.Exts {
		c.Exts[i] = normalizeExt(ext)
	}
	if c.Lossless == nil {
		lossless := true
		c.Lossless = &lossless
	}
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

func (c *OptimizeConfig) Verify() error {
	if c.Dir == "" {
		return errors.New("missing frames dir in config")
	}
	if c.BackupDir == "" {
		c.BackupDir = strings.TrimRight(c.Dir, "/\\") + "_backup"
	}
	if c.Ext == "" {
		c.Ext = ".webp"
	}
	c.Ext = normalizeExt(c.Ext)
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("quality must be in 0..100, got %.0f", c.Quality)
	}
	if c.KeepBackups == nil {
		keep := true
		c.KeepBackups = &keep
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

func (c *SVGPathConfig) Verify() error {
	if c.Input == "" {
		return errors.New("missing svg input path")
	}
	if c.Output == "" {
		return errors.New("missing output path")
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
