// Package health реализует HTTP-проверку готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
)

const (
	statusOK       = "ok"
	statusFail     = "fail"
	statusDisabled = "disabled"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response описывает состояние сервиса и его зависимостей.
type Response struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"ok"`
	Cache   string `json:"cache" example:"disabled"`
}

// Handler отвечает на проверки готовности.
type Handler struct {
	log     *slog.Logger
	storage Pinger
	cache   Pinger
	timeout time.Duration
}

// New создает новый экземпляр Handler. cache может быть nil, если кеш отключён.
func New(log *slog.Logger, storage Pinger, cache Pinger, timeout time.Duration) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
		cache:   cache,
		timeout: timeout,
	}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Description Проверяет доступность хранилища и кеша. Недоступность кеша не делает сервис неготовым.
// @Tags Health
// @Produce  json
// @Success 200 {object} Response "Сервис готов"
// @Failure 503 {object} Response "Хранилище недоступно"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := Response{Status: statusOK, Storage: statusOK, Cache: statusDisabled}

	if err := h.storage.Ping(ctx); err != nil {
		log.Error("storage is unavailable", sl.Err(err))
		resp.Status = statusFail
		resp.Storage = statusFail
	}
	if h.cache != nil {
		resp.Cache = statusOK
		if err := h.cache.Ping(ctx); err != nil {
			log.Warn("cache is unavailable", sl.Err(err))
			resp.Cache = statusFail
		}
	}

	if resp.Status != statusOK {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
