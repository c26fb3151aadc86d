package postgres

import (
	"context"
	"database/sql"

	"identity/internal/errors"
	"identity/internal/infra/persistence/postgres/migrations"

	"github.com/pressly/goose/v3"
)

// Migration commands understood by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

type gooseCommand func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error

// gooseCommands is a seam for testing the goose entry points.
var gooseCommands = map[string]gooseCommand{
	MigrateUp:     goose.UpContext,
	MigrateDown:   goose.DownContext,
	MigrateStatus: goose.StatusContext,
}

// Migrate runs a goose command against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string) error {
	run, ok := gooseCommands[command]
	if !ok {
		return errors.Errorf("unknown migrate command %q", command)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	if err := run(ctx, db, "."); err != nil {
		return errors.Wrapf(err, "migrate %s failed", command)
	}

	return nil
}
