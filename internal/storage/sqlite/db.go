// Package sqlite реализует хранилище подписчиков и учётных записей на встроенной
// базе SQLite (modernc.org/sqlite, без cgo). Используется для локальной разработки и тестов.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB держит отдельные пулы соединений для записи и чтения.
// Пул записи ограничен одним соединением, чтобы избежать ошибок "database is locked".
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
}

// NewDB открывает базу по пути dbPath в режиме WAL с таймаутом ожидания блокировки.
// Строка вида "file:...?..." передаётся драйверу без изменений.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	dsn := dbPath
	if !strings.HasPrefix(dbPath, "file:") {
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
			dbPath,
		)
	}

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{
		Writer: writer,
		Reader: reader,
	}, nil
}

// Close закрывает оба пула и возвращает первую ошибку.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
