// Package login реализует вход администратора.
package login

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/http/response"
	"github.com/magabrotheeeer/newsletter/internal/lib/jwt"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
	"github.com/magabrotheeeer/newsletter/internal/metrics"
	"github.com/magabrotheeeer/newsletter/internal/models"
)

// Request учётные данные администратора.
type Request struct {
	Email    string `json:"email" form:"email" validate:"required" example:"admin@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"supersecret"`
}

// Response описывает выданную сессию.
type Response struct {
	Token     string    `json:"token"`
	Email     string    `json:"email" example:"admin@example.com"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticator проверяет учётные данные.
type Authenticator interface {
	Authenticate(ctx context.Context, email, plaintext string) (*models.Account, error)
}

// SessionIssuer выдаёт сессию для учётной записи.
type SessionIssuer interface {
	Issue(acc *models.Account) (string, *jwt.SessionClaims, error)
}

// Handler обрабатывает вход администратора.
type Handler struct {
	log      *slog.Logger
	auth     Authenticator
	sessions SessionIssuer
	cookie   config.Session
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Authenticator, sessions SessionIssuer, cookie config.Session) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход администратора
// @Description Проверяет email и пароль, выдаёт сессию в cookie и в теле ответа.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.OKResponse{data=Response} "Сессия выдана"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/admin/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.Decode(r, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	acc, err := h.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("failed to authenticate", sl.Err(err))
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if acc == nil {
		log.Info("login rejected")
		metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	token, claims, err := h.sessions.Issue(acc)
	if err != nil {
		log.Error("failed to issue session", sl.Err(err))
		metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	expires := claims.ExpiresAt.Time
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("admin logged in", slog.Int64("account_id", acc.ID))
	metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	render.JSON(w, r, response.OKWithData(Response{
		Token:     token,
		Email:     acc.Email,
		ExpiresAt: expires,
	}))
}
