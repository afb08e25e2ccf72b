// Package database открывает хранилище, выбранное в конфиге, и применяет миграции.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/migrations"
	"github.com/magabrotheeeer/newsletter/internal/storage"
	"github.com/magabrotheeeer/newsletter/internal/storage/postgresql"
	"github.com/magabrotheeeer/newsletter/internal/storage/sqlite"
)

// Open возвращает хранилище для cfg.Driver. Если cfg.SkipMigrations не выставлен,
// схема приводится к последней версии.
func Open(ctx context.Context, cfg config.Storage, log *slog.Logger) (storage.Store, error) {
	const op = "database.Open"

	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgresql.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !cfg.SkipMigrations {
			if err := migrations.RunPostgres(s.DB); err != nil {
				_ = s.Close()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			log.Info("postgres migrations applied")
		}
		return s, nil

	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !cfg.SkipMigrations {
			if err := migrations.RunSQLite(db.Writer); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			log.Info("sqlite migrations applied", slog.String("path", cfg.DSN))
		}
		return sqlite.New(db), nil

	default:
		return nil, fmt.Errorf("%s: unknown driver %q", op, cfg.Driver)
	}
}
