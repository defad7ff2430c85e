package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSearchURL = "https://api.magicthegathering.io/v1/cards"
	appDirName       = "mtg-card-searcher"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Image   ImageConfig   `mapstructure:"image"`
	Window  WindowConfig  `mapstructure:"window"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the remote card database settings
type APIConfig struct {
	SearchURL string        `mapstructure:"search_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// ImageConfig bounds what the image fetcher accepts and displays
type ImageConfig struct {
	MaxWidth  int   `mapstructure:"max_width"`
	MaxHeight int   `mapstructure:"max_height"`
	MaxBytes  int64 `mapstructure:"max_bytes"`
}

type WindowConfig struct {
	Width  float32 `mapstructure:"width"`
	Height float32 `mapstructure:"height"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			SearchURL: DefaultSearchURL,
			Timeout:   15 * time.Second,
			UserAgent: "mtg-card-searcher/1.0",
		},
		Image: ImageConfig{
			MaxWidth:  672,
			MaxHeight: 936,
			MaxBytes:  10 << 20,
		},
		Window: WindowConfig{
			Width:  400,
			Height: 620,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultConfigPath returns the per-user config directory, or "" if unknown
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appDirName)
}

// Load reads config.yaml from the user config dir or the working dir, then
// applies MTG_* environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if p := defaultConfigPath(); p != "" {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile reads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("MTG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.search_url", cfg.API.SearchURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)

	v.SetDefault("image.max_width", cfg.Image.MaxWidth)
	v.SetDefault("image.max_height", cfg.Image.MaxHeight)
	v.SetDefault("image.max_bytes", cfg.Image.MaxBytes)

	v.SetDefault("window.width", cfg.Window.Width)
	v.SetDefault("window.height", cfg.Window.Height)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.json", cfg.Logging.JSON)
}

// Validate rejects settings the services cannot work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.SearchURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api.search_url %q", c.API.SearchURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Image.MaxWidth <= 0 || c.Image.MaxHeight <= 0 {
		return fmt.Errorf("image.max_width and image.max_height must be positive")
	}
	if c.Image.MaxBytes <= 0 {
		return fmt.Errorf("image.max_bytes must be positive")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window.width and window.height must be positive")
	}
	return nil
}
