// Package logout реализует завершение сессии администратора.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/http/middlewarectx"
	"github.com/magabrotheeeer/newsletter/internal/http/response"
	"github.com/magabrotheeeer/newsletter/internal/lib/jwt"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
)

// Revoker отзывает сессию.
type Revoker interface {
	Revoke(ctx context.Context, claims *jwt.SessionClaims) error
}

// Handler обрабатывает выход администратора.
type Handler struct {
	log     *slog.Logger
	revoker Revoker
	cookie  config.Session
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, revoker Revoker, cookie config.Session) *Handler {
	return &Handler{
		log:     log,
		revoker: revoker,
		cookie:  cookie,
	}
}

// ServeHTTP godoc
// @Summary Выход администратора
// @Description Отзывает текущую сессию и удаляет cookie.
// @Tags Admin
// @Produce  json
// @Security SessionCookie
// @Success 200 {object} response.OKResponse "Сессия завершена"
// @Failure 401 {object} response.ErrorResponse "Нет действующей сессии"
// @Router /api/v1/admin/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	if err := h.revoker.Revoke(r.Context(), claims); err != nil {
		log.Warn("failed to revoke session", sl.Err(err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("admin logged out", slog.Int64("account_id", claims.AccountID))
	render.JSON(w, r, response.OKWithData(map[string]string{"message": "logged out"}))
}
