// Package subscribers реализует просмотр списка подписчиков администратором.
package subscribers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsletter/internal/http/response"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/models"
)

// Response содержит список подписчиков, новые первыми.
type Response struct {
	Subscribers []*models.Subscriber `json:"subscribers"`
	Total       int                  `json:"total" example:"2"`
}

// Lister возвращает подписчиков.
type Lister interface {
	List(ctx context.Context) ([]*models.Subscriber, error)
}

// Handler отдаёт список подписчиков.
type Handler struct {
	log     *slog.Logger
	service Lister
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Lister) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список подписчиков
// @Description Возвращает всех подписчиков, новые первыми. Требуется сессия администратора.
// @Tags Admin
// @Produce  json
// @Security SessionCookie
// @Success 200 {object} response.OKResponse{data=Response} "Список подписчиков"
// @Failure 401 {object} response.ErrorResponse "Нет действующей сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/admin/subscribers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.subscribers"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list subscribers", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subscribers"))
		return
	}

	log.Info("subscribers listed", slog.Int("count", len(list)))
	render.JSON(w, r, response.OKWithData(Response{
		Subscribers: list,
		Total:       len(list),
	}))
}
