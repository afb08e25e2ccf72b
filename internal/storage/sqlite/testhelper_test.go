package sqlite

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsletter/internal/migrations"
)

// newTestStorage открывает отдельную in-memory базу на каждый тест и применяет миграции.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
	db, err := NewDB(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.RunSQLite(db.Writer))
	return New(db)
}
