// Package main News Flash API
//
// @title           News Flash API
// @version         1.0
// @description     API подписки на рассылку и администрирования подписчиков

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name newsletter_session
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/newsletter/internal/app/newsletter"
	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env, os.Stdout)

	logger.Info("starting newsletter", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newsletter.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("newsletter stopped gracefully")
}
