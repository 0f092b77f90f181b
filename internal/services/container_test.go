package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/garyjia/os-extractor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Database: config.DatabaseConfig{Enabled: true, Path: filepath.Join(dir, "db", "x.db")},
		PDF:      config.PDFConfig{Backend: "plain"},
		Output:   config.OutputConfig{Dir: filepath.Join(dir, "out")},
		Batch:    config.BatchConfig{Workers: 2},
		OpenAI:   config.OpenAIConfig{Model: "gpt-4o-mini"},
	}
}

func TestNewInfrastructure(t *testing.T) {
	cfg := testConfig(t)

	infra, err := NewInfrastructure(context.Background(), cfg.Database, zap.NewNop())
	require.NoError(t, err)
	defer infra.Shutdown()

	require.NotNil(t, infra.Database)
	require.NotNil(t, infra.Extractions)

	_, err = infra.Extractions.List(context.Background(), 10, 0)
	assert.NoError(t, err)
}

func TestNewInfrastructure_Disabled(t *testing.T) {
	infra, err := NewInfrastructure(context.Background(), config.DatabaseConfig{}, zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, infra.Database)
	assert.Nil(t, infra.Extractions)
	assert.NoError(t, infra.Shutdown())
}

func TestNewContainer_OptionalIntegrations(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(cfg, nil, ContainerOptions{}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, c.Extractor)
	assert.Nil(t, c.Enricher)
	assert.Nil(t, c.Notifier)

	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Enrich = true
	cfg.Lark = config.LarkConfig{AppID: "cli_x", AppSecret: "s", ChatID: "oc_x"}

	c, err = NewContainer(cfg, nil, ContainerOptions{UseOutputDir: true}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, c.Enricher)
	assert.NotNil(t, c.Notifier)
}

func TestNewContainer_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.PDF.Backend = "ocr"

	_, err := NewContainer(cfg, nil, ContainerOptions{}, zap.NewNop())
	assert.Error(t, err)
}
