package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shouni/hyperreal-studio/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Run("未設定なら既定値になるのだ", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{})
		require.NoError(t, err)

		assert.Empty(t, cfg.APIKey)
		assert.Equal(t, generator.DefaultModel, cfg.Model)
		assert.True(t, cfg.ForwardImageSize)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes)
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 1000, cfg.MaxSessions)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("API_KEYが優先され、無ければGEMINI_API_KEYを使うのだ", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{"API_KEY": "primary", "GEMINI_API_KEY": "fallback"})
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.APIKey)

		cfg, err = LoadFrom(map[string]string{"GEMINI_API_KEY": " fallback "})
		require.NoError(t, err)
		assert.Equal(t, "fallback", cfg.APIKey)
	})

	t.Run("GeneratorConfigに値が引き継がれるのだ", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{
			"API_KEY":            "k",
			"GEMINI_MODEL":       "gemini-2.5-flash-image",
			"FORWARD_IMAGE_SIZE": "false",
		})
		require.NoError(t, err)
		assert.Equal(t, generator.Config{APIKey: "k", Model: "gemini-2.5-flash-image", ForwardImageSize: false}, cfg.GeneratorConfig())
	})

	t.Run("ログレベルを変換できるのだ", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{"LOG_LEVEL": "debug", "LOG_FORMAT": "JSON"})
		require.NoError(t, err)
		level, err := cfg.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("不正な値はエラーなのだ", func(t *testing.T) {
		cases := []map[string]string{
			{"LOG_LEVEL": "verbose"},
			{"LOG_FORMAT": "xml"},
			{"MAX_SESSIONS": "0"},
			{"REFERENCE_CACHE_SIZE": "-1"},
			{"SESSION_TTL": "soon"},
		}
		for _, environ := range cases {
			_, err := LoadFrom(environ)
			assert.Error(t, err, "%v", environ)
		}
	})
}
