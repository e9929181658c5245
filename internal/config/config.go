package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"

	"github.com/park285/shuuro-session/internal/variant"
)

// FileEnv names the optional YAML file applied between defaults and env.
const FileEnv = "SHUURO_CONFIG"

type LogConfig struct {
	Level   string `env:"LOG_LEVEL" yaml:"level"`
	Format  string `env:"LOG_FORMAT" yaml:"format"`
	Console bool   `env:"LOG_TO_CONSOLE" yaml:"console"`
	ToFile  bool   `env:"LOG_TO_FILE" yaml:"to_file"`
	File    string `env:"LOG_FILE" yaml:"file"`
	Caller  bool   `env:"LOG_CALLER" yaml:"caller"`
}

type RenderConfig struct {
	SquareSize int    `env:"SHUURO_RENDER_SQUARE_SIZE" yaml:"square_size"`
	OutputDir  string `env:"SHUURO_RENDER_OUTPUT_DIR" yaml:"output_dir"`
}

type AppConfig struct {
	Variant string `env:"SHUURO_VARIANT" yaml:"variant"`
	// PlinthSeed fixes plinth layout; 0 draws a fresh seed per session.
	PlinthSeed  uint64 `env:"SHUURO_PLINTH_SEED" yaml:"plinth_seed"`
	MessagesDir string `env:"SHUURO_MESSAGES_DIR" yaml:"messages_dir"`

	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

func Defaults() *AppConfig {
	return &AppConfig{
		Variant: "shuuro",
		Render: RenderConfig{
			SquareSize: 56,
			OutputDir:  ".",
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "legacy",
			Console: true,
			File:    "logs/shuuro.log",
		},
	}
}

// Load applies defaults, then the file named by SHUURO_CONFIG, then the environment.
func Load() (*AppConfig, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv(FileEnv)); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) normalize() {
	c.Variant = strings.ToLower(strings.TrimSpace(c.Variant))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Log.File = strings.TrimSpace(c.Log.File)
	c.MessagesDir = strings.TrimSpace(c.MessagesDir)
	c.Render.OutputDir = strings.TrimSpace(c.Render.OutputDir)
}

// Validate reports every problem at once.
func (c *AppConfig) Validate() error {
	var err error
	if _, ok := variant.Lookup(c.Variant); !ok {
		known := make([]string, 0, len(variant.All))
		for _, v := range variant.All {
			known = append(known, v.String())
		}
		err = multierr.Append(err, fmt.Errorf("variant %q is not registered, want one of %s", c.Variant, strings.Join(known, ", ")))
	}
	switch c.Log.Format {
	case "legacy", "json", "console":
	default:
		err = multierr.Append(err, fmt.Errorf("log format %q: want legacy, json or console", c.Log.Format))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("log level %q is not supported", c.Log.Level))
	}
	if c.Log.ToFile && c.Log.File == "" {
		err = multierr.Append(err, fmt.Errorf("log file path is empty"))
	}
	if c.Render.SquareSize < 16 || c.Render.SquareSize > 256 {
		err = multierr.Append(err, fmt.Errorf("render square size %d out of range [16, 256]", c.Render.SquareSize))
	}
	if c.Render.OutputDir == "" {
		err = multierr.Append(err, fmt.Errorf("render output dir is empty"))
	}
	return err
}
