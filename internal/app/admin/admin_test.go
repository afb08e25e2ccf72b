package admin

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsletter/internal/cache"
	"github.com/magabrotheeeer/newsletter/internal/migrations"
	"github.com/magabrotheeeer/newsletter/internal/rabbitmq"
	"github.com/magabrotheeeer/newsletter/internal/services/auth"
	"github.com/magabrotheeeer/newsletter/internal/services/subscription"
	"github.com/magabrotheeeer/newsletter/internal/storage/sqlite"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type fixture struct {
	cli  *CLI
	out  *bytes.Buffer
	auth *auth.Service
	subs *subscription.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.NewDB(ctx, "file:"+url.PathEscape(t.Name())+"?mode=memory&cache=shared&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLite(db.Writer))

	store := sqlite.New(db)
	authSvc := auth.New(store, newNoopLogger())
	subSvc := subscription.New(store, cache.Noop{}, rabbitmq.NoopPublisher{}, newNoopLogger(), 0)
	out := &bytes.Buffer{}
	return &fixture{
		cli:  New(authSvc, subSvc, out),
		out:  out,
		auth: authSvc,
		subs: subSvc,
	}
}

func TestCLI_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cli.Execute(ctx, []string{"create", "admin@example.com", "supersecret"}))
	assert.Contains(t, f.out.String(), "account admin@example.com created")

	acc, err := f.auth.Authenticate(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	require.NotNil(t, acc)

	f.out.Reset()
	require.NoError(t, f.cli.Execute(ctx, []string{"create", "admin@example.com", "otherpassword"}))
	assert.Contains(t, f.out.String(), "already exists, skipping")

	acc, err = f.auth.Authenticate(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotNil(t, acc, "existing password must be kept")
}

func TestCLI_CreateShortPassword(t *testing.T) {
	f := newFixture(t)

	err := f.cli.Execute(context.Background(), []string{"create", "admin@example.com", "short"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
	assert.Empty(t, f.out.String())
}

func TestCLI_CreateExistingSkipsPasswordCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cli.Create(ctx, "admin@test.com", "longenough1"))
	f.out.Reset()

	require.NoError(t, f.cli.Execute(ctx, []string{"create", "admin@test.com", "short"}))
	assert.Contains(t, f.out.String(), "account admin@test.com already exists, skipping")
}

func TestCLI_Deactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cli.Create(ctx, "admin@example.com", "supersecret"))
	require.NoError(t, f.cli.Execute(ctx, []string{"deactivate", "admin@example.com"}))

	acc, err := f.auth.Authenticate(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	assert.Nil(t, acc)

	err = f.cli.Execute(ctx, []string{"deactivate", "ghost@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCLI_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.subs.Subscribe(ctx, "first@example.com", "First")
	require.NoError(t, err)
	_, err = f.subs.Subscribe(ctx, "second@example.com", "")
	require.NoError(t, err)

	require.NoError(t, f.cli.Execute(ctx, []string{"list"}))
	out := f.out.String()
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "total: 2")
	assert.Less(t, strings.Index(out, "second@example.com"), strings.Index(out, "first@example.com"))
	assert.Contains(t, out, "Subscriber")
}

func TestCLI_Usage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, args := range [][]string{nil, {"unknown"}, {"create", "only-email"}, {"list", "extra"}, {"deactivate"}} {
		assert.ErrorIs(t, f.cli.Execute(ctx, args), ErrUsage)
	}
}
