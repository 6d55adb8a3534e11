package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shouni/hyperreal-studio/pkg/generator"
)

// Config は環境変数から読み込むアプリケーション設定です。
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Gemini
	APIKey           string `env:"API_KEY"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"` // API_KEY が空の場合のフォールバック
	Model            string `env:"GEMINI_MODEL" envDefault:"gemini-3-pro-image-preview"`
	ForwardImageSize bool   `env:"FORWARD_IMAGE_SIZE" envDefault:"true"`

	// HTTP
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" envDefault:"20971520"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text or json

	// 参照画像
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT" envDefault:"15s"`
	ReferenceCacheTTL  time.Duration `env:"REFERENCE_CACHE_TTL" envDefault:"30m"`
	ReferenceCacheSize int           `env:"REFERENCE_CACHE_SIZE" envDefault:"64"`
	CompressReferences bool          `env:"COMPRESS_REFERENCES" envDefault:"false"`

	// セッション
	MaxSessions int           `env:"MAX_SESSIONS" envDefault:"1000"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Load は .env を反映したうえで環境変数を Config に読み込みます。
func Load() (*Config, error) {
	loadEnvFiles()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg.normalize()
}

// LoadFrom は与えられた変数マップから Config を読み込みます。
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg.normalize()
}

func (c *Config) normalize() (*Config, error) {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(c.GeminiAPIKey)
	}
	c.Model = strings.TrimSpace(c.Model)
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 20 * 1024 * 1024
	}
	if c.ReferenceCacheSize <= 0 {
		return nil, fmt.Errorf("REFERENCE_CACHE_SIZE must be positive: %d", c.ReferenceCacheSize)
	}
	if c.MaxSessions <= 0 {
		return nil, fmt.Errorf("MAX_SESSIONS must be positive: %d", c.MaxSessions)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json: %q", c.LogFormat)
	}
	if _, err := c.SlogLevel(); err != nil {
		return nil, err
	}
	return c, nil
}

// GeneratorConfig は Generation Adapter 用の設定を返します。
func (c *Config) GeneratorConfig() generator.Config {
	return generator.Config{
		APIKey:           c.APIKey,
		Model:            c.Model,
		ForwardImageSize: c.ForwardImageSize,
	}
}

// SlogLevel は LOG_LEVEL を slog.Level に変換します。
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// IsProduction は本番環境かどうかを返します。
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
