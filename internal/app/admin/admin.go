// Package admin реализует команды обслуживания: создание и блокировку учётных
// записей администраторов, вывод списка подписчиков.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/magabrotheeeer/newsletter/internal/models"
	"github.com/magabrotheeeer/newsletter/internal/services/auth"
	"github.com/magabrotheeeer/newsletter/internal/storage"
)

// ErrUsage возвращается при неверных аргументах команды.
var ErrUsage = errors.New("usage")

// Usage справка по командам.
const Usage = `usage:
  admin create <email> <password>   create an active admin account
  admin deactivate <email>          block an admin account
  admin list                        print subscribers, newest first
`

// Accounts управляет учётными записями.
type Accounts interface {
	AccountExists(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, email, plaintext string) (*models.Account, error)
	SetActive(ctx context.Context, email string, active bool) error
}

// Subscribers отдаёт список подписчиков.
type Subscribers interface {
	List(ctx context.Context) ([]*models.Subscriber, error)
	Count(ctx context.Context) (int, error)
}

// CLI выполняет команды и пишет результат в out.
type CLI struct {
	accounts    Accounts
	subscribers Subscribers
	out         io.Writer
}

// New создает CLI.
func New(accounts Accounts, subscribers Subscribers, out io.Writer) *CLI {
	return &CLI{
		accounts:    accounts,
		subscribers: subscribers,
		out:         out,
	}
}

// Execute разбирает args и выполняет команду.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "create":
		if len(args) != 3 {
			return ErrUsage
		}
		return c.Create(ctx, args[1], args[2])
	case "deactivate":
		if len(args) != 2 {
			return ErrUsage
		}
		return c.Deactivate(ctx, args[1])
	case "list":
		if len(args) != 1 {
			return ErrUsage
		}
		return c.List(ctx)
	default:
		return ErrUsage
	}
}

// Create создаёт учётную запись. Существующая запись не считается ошибкой.
func (c *CLI) Create(ctx context.Context, email, password string) error {
	const op = "admin.Create"

	exists, err := c.accounts.AccountExists(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		fmt.Fprintf(c.out, "account %s already exists, skipping\n", email)
		return nil
	}

	if err := auth.ValidatePassword(password); err != nil {
		return fmt.Errorf("%s: password must be at least %d characters: %w", op, auth.MinPasswordLength, err)
	}

	_, err = c.accounts.CreateAccount(ctx, email, password)
	if errors.Is(err, models.ErrDuplicate) {
		fmt.Fprintf(c.out, "account %s already exists, skipping\n", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	fmt.Fprintf(c.out, "account %s created\n", email)
	return nil
}

// Deactivate блокирует учётную запись.
func (c *CLI) Deactivate(ctx context.Context, email string) error {
	const op = "admin.Deactivate"

	err := c.accounts.SetActive(ctx, email, false)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: account %s not found", op, email)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	fmt.Fprintf(c.out, "account %s deactivated\n", email)
	return nil
}

// List печатает подписчиков таблицей.
func (c *CLI) List(ctx context.Context) error {
	const op = "admin.List"

	subs, err := c.subscribers.List(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	total, err := c.subscribers.Count(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tSUBSCRIBED AT")
	for _, s := range subs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Email, s.Name, s.SubscribedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	fmt.Fprintf(c.out, "total: %d\n", total)
	return nil
}
