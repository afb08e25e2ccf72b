// Package migrations применяет встроенные в бинарник миграции схемы
// для PostgreSQL и SQLite.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// RunPostgres применяет миграции PostgreSQL. Повторный запуск безопасен.
func RunPostgres(db *sql.DB) error {
	const op = "migrations.RunPostgres"
	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := run(postgresFS, "postgres", "pgx5", driver); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RunSQLite применяет миграции SQLite. Повторный запуск безопасен.
func RunSQLite(db *sql.DB) error {
	const op = "migrations.RunSQLite"
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := run(sqliteFS, "sqlite", "sqlite", driver); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func run(fsys embed.FS, dir, dbName string, driver database.Driver) error {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
