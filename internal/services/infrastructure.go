package services

import (
	"context"
	"fmt"

	"github.com/garyjia/os-extractor/internal/config"
	"github.com/garyjia/os-extractor/internal/repository"
	"github.com/garyjia/os-extractor/pkg/database"
	"go.uber.org/zap"
)

// Infrastructure holds the stateful foundations: the database and its repositories
type Infrastructure struct {
	Database    *database.DB
	Extractions *repository.ExtractionRepository

	logger *zap.Logger
}

// NewInfrastructure opens and migrates the database when enabled.
// With persistence disabled every field stays nil.
func NewInfrastructure(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{logger: logger}

	if !cfg.Enabled {
		logger.Info("Persistence disabled")
		return infra, nil
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.NewMigrator(db, logger).Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	infra.Database = db
	infra.Extractions = repository.NewExtractionRepository(db, logger)

	logger.Info("Infrastructure initialized", zap.String("database", cfg.Path))
	return infra, nil
}

// Shutdown closes the database if it was opened
func (i *Infrastructure) Shutdown() error {
	if i.Database == nil {
		return nil
	}
	if err := i.Database.Close(); err != nil {
		i.logger.Error("Database close error", zap.Error(err))
		return err
	}
	return nil
}
