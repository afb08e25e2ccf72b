package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/magabrotheeeer/newsletter/internal/app/admin"
	"github.com/magabrotheeeer/newsletter/internal/cache"
	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/rabbitmq"
	"github.com/magabrotheeeer/newsletter/internal/services/auth"
	"github.com/magabrotheeeer/newsletter/internal/services/subscription"
	"github.com/magabrotheeeer/newsletter/internal/storage/database"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), admin.Usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := sl.New(cfg.Env, os.Stderr)

	ctx := context.Background()
	store, err := database.Open(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to open storage", sl.Err(err))
		return 1
	}
	defer func() {
		_ = store.Close()
	}()

	cli := admin.New(
		auth.New(store, logger),
		subscription.New(store, cache.Noop{}, rabbitmq.NoopPublisher{}, logger, 0),
		os.Stdout,
	)

	if err := cli.Execute(ctx, flag.Args()); err != nil {
		if errors.Is(err, admin.ErrUsage) {
			flag.Usage()
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
