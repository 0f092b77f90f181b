package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// clearEnv blanks every bound variable so the host environment cannot leak in
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "PDF_BACKEND", "OUTPUT_DIR", "OPENAI_API_KEY",
		"OPENAI_ENRICH", "LARK_APP_ID", "LARK_APP_SECRET", "LARK_CHAT_ID", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "fitz", cfg.PDF.Backend)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.Database.Enabled)
	assert.False(t, cfg.OpenAI.Enabled())
	assert.False(t, cfg.Lark.Enabled())
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
pdf:
  backend: plain
batch:
  workers: 8
output:
  dir: /tmp/os
logger:
  format: json
`)
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_ENRICH", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "plain", cfg.PDF.Backend)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, "/tmp/os", cfg.Output.Dir)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.True(t, cfg.OpenAI.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad backend", "pdf:\n  backend: ocr\n", "pdf.backend"},
		{"no workers", "batch:\n  workers: 0\n", "batch.workers"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"enrich without key", "openai:\n  enrich: true\n", "openai.api_key"},
		{"partial lark", "lark:\n  app_id: cli_x\n", "lark.app_secret"},
		{"bad log format", "logger:\n  format: xml\n", "logger.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLarkConfig_Enabled(t *testing.T) {
	assert.True(t, LarkConfig{AppID: "a", AppSecret: "s", ChatID: "c"}.Enabled())
	assert.False(t, LarkConfig{AppID: "a", AppSecret: "s"}.Enabled())
}
