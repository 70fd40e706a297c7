// Package config loads blockfall settings from defaults, an optional .env
// file, an optional config file, BLOCKFALL_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BLOCKFALL"

type Config struct {
	Gravity GravityConfig `mapstructure:"gravity"`
	Render  RenderConfig  `mapstructure:"render"`
	Window  WindowConfig  `mapstructure:"window"`
	Debug   DebugConfig   `mapstructure:"debug"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Log     LogConfig     `mapstructure:"log"`

	// Seed for the piece generator. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed"`
}

type GravityConfig struct {
	// Rate is the number of gravity ticks per second.
	Rate float64 `mapstructure:"rate"`
}

type RenderConfig struct {
	FPS int `mapstructure:"fps"`
}

type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type DebugConfig struct {
	UI bool `mapstructure:"ui"`
}

type AudioConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File, when set, sends logs to a rotating file instead of stderr.
	File string `mapstructure:"file"`
}

var defaults = map[string]any{
	"gravity.rate":  2.0,
	"render.fps":    60,
	"window.width":  300,
	"window.height": 600,
	"seed":          uint64(0),
	"debug.ui":      false,
	"audio.enabled": true,
	"log.level":     "info",
	"log.file":      "",
}

// flag name -> config key
var flagKeys = map[string]string{
	"gravity-rate": "gravity.rate",
	"fps":          "render.fps",
	"width":        "window.width",
	"height":       "window.height",
	"seed":         "seed",
	"debug-ui":     "debug.ui",
	"audio":        "audio.enabled",
	"log-level":    "log.level",
	"log-file":     "log.file",
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

// NewFlagSet declares every flag understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "", "path to a config file (yaml, toml or json)")
	flags.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	flags.Float64("gravity-rate", defaults["gravity.rate"].(float64), "gravity ticks per second")
	flags.Int("fps", defaults["render.fps"].(int), "frames per second")
	flags.Int("width", defaults["window.width"].(int), "window width in pixels")
	flags.Int("height", defaults["window.height"].(int), "window height in pixels")
	flags.Uint64("seed", 0, "piece generator seed (0 = random)")
	flags.Bool("debug-ui", false, "show the imgui debug overlay")
	flags.Bool("audio", true, "play sound cues")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "write logs to a rotating file")
	return flags
}

// Load parses args with the flags from NewFlagSet and resolves the
// configuration.
func Load(name string, args []string) (*Config, error) {
	flags := NewFlagSet(name)
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	return FromFlags(flags)
}

// FromFlags resolves the configuration from an already parsed flag set.
func FromFlags(flags *pflag.FlagSet) (*Config, error) {
	if envFile, err := flags.GetString("env-file"); err == nil && envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := newViper()

	if path, err := flags.GetString("config"); err == nil && path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Gravity.Rate < 0:
		return fmt.Errorf("%w: gravity.rate must not be negative, got %v", ErrInvalid, c.Gravity.Rate)
	case c.Render.FPS <= 0:
		return fmt.Errorf("%w: render.fps must be positive, got %d", ErrInvalid, c.Render.FPS)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrInvalid, err)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
