package pg

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/apikit/pkg/logger"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const embeddedDir = "migrations"

// Migrate applies the notification log schema with goose. The embedded
// migrations are used unless cfg.MigrationsPath points at a directory.
// goose output goes to log at info level.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("pg.migrate"))

	fsys, dir, err := migrationSource(cfg)
	if err != nil {
		return err
	}

	// goose needs database/sql; this shares the pool's connections.
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", logger.Error(err))
		}
	}(db)

	goose.SetBaseFS(fsys)
	goose.SetLogger(gooseLogger{log: log})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return nil
}

func migrationSource(cfg Config) (fs.FS, string, error) {
	if cfg.MigrationsPath == "" {
		return embeddedMigrations, embeddedDir, nil
	}
	if _, err := os.Stat(cfg.MigrationsPath); err != nil {
		if os.IsNotExist(err) {
			return nil, "", errors.Join(ErrMigrationsDirNotFound, err)
		}
		return nil, "", errors.Join(ErrFailedToApplyMigrations, err)
	}
	// nil FS makes goose read from the OS filesystem.
	return nil, cfg.MigrationsPath, nil
}

// gooseLogger routes goose's Printf-style output to slog.
type gooseLogger struct {
	log *slog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(fmt.Sprintf(format, v...))
}
