package main

import (
	"context"
	"fmt"
	"log/slog"

	"identity/config"
	logs "identity/internal/infra/log"
	"identity/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func runMigrate(ctx context.Context, command string) error {
	env, err := openDatabase()
	if err != nil {
		return err
	}
	defer env.close()

	sqlDB, err := env.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}

	env.logger.Info("Running migrations", slog.String("command", command))
	if err := postgres.Migrate(ctx, sqlDB, command); err != nil {
		return err
	}

	fmt.Printf("migrate %s: done\n", command)

	return nil
}

type ctlEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// openDatabase loads the configuration and connects to PostgreSQL.
func openDatabase() (*ctlEnv, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create logger")
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &ctlEnv{cfg: cfg, logger: logger, db: db}, nil
}

func (e *ctlEnv) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
