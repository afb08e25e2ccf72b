// Package subscribe реализует HTTP-обработчик подписки на рассылку.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/newsletter/internal/http/response"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/metrics"
	"github.com/magabrotheeeer/newsletter/internal/models"
)

// Request входные данные для подписки. Принимается JSON или форма.
type Request struct {
	Email string `json:"email" form:"email" validate:"max=255" example:"user@example.com"`
	Name  string `json:"name" form:"name" validate:"max=100" example:"Jane"`
}

// Response данные созданной подписки.
type Response struct {
	Email        string    `json:"email" example:"user@example.com"`
	Name         string    `json:"name" example:"Jane"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// Service определяет бизнес-логику подписки.
type Service interface {
	Subscribe(ctx context.Context, email, name string) (*models.Subscriber, error)
}

// Handler обрабатывает запросы на подписку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписка на рассылку
// @Description Проверяет и нормализует email, отклоняет повторную подписку и сохраняет подписчика.
// @Tags Subscription
// @Accept  json
// @Accept  x-www-form-urlencoded
// @Produce  json
// @Param request body Request true "Email и имя подписчика"
// @Success 201 {object} response.OKResponse{data=Response} "Подписка оформлена"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 409 {object} response.ErrorResponse "Email уже подписан"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		metrics.Subscriptions.WithLabelValues(metrics.ResultInvalid).Inc()
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		metrics.Subscriptions.WithLabelValues(metrics.ResultInvalid).Inc()
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Subscribe(r.Context(), req.Email, req.Name)
	if err != nil {
		var vErr *models.ValidationError
		var dErr *models.DuplicateError
		switch {
		case errors.As(err, &vErr):
			log.Info("invalid subscription", sl.Err(err))
			metrics.Subscriptions.WithLabelValues(metrics.ResultInvalid).Inc()
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FieldError(vErr.Field, vErr.Reason))
		case errors.As(err, &dErr):
			log.Info("duplicate subscription")
			metrics.Subscriptions.WithLabelValues(metrics.ResultDuplicate).Inc()
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.FieldError(dErr.Field, dErr.Reason))
		default:
			log.Error("failed to subscribe", sl.Err(err))
			metrics.Subscriptions.WithLabelValues(metrics.ResultError).Inc()
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to subscribe"))
		}
		return
	}

	log.Info("subscribed", slog.Int64("id", sub.ID))
	metrics.Subscriptions.WithLabelValues(metrics.ResultCreated).Inc()
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(Response{
		Email:        sub.Email,
		Name:         sub.Name,
		SubscribedAt: sub.SubscribedAt,
	}))
}
