// Package middlewarectx содержит HTTP middleware сервиса: проверку сессии
// администратора, заголовки безопасности, ограничение частоты входа и метрики.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/newsletter/internal/http/response"
	"github.com/magabrotheeeer/newsletter/internal/lib/jwt"
	"github.com/magabrotheeeer/newsletter/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Session ключ для claims сессии в контексте.
const Session Key = "session"

// SessionValidator проверяет токен сессии.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*jwt.SessionClaims, error)
}

// SessionFromContext возвращает claims сессии, положенные SessionMiddleware.
func SessionFromContext(ctx context.Context) (*jwt.SessionClaims, bool) {
	claims, ok := ctx.Value(Session).(*jwt.SessionClaims)
	return claims, ok && claims != nil
}

// TokenFromRequest достаёт токен из cookie cookieName или из заголовка Authorization.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// SessionMiddleware пропускает запрос дальше только с действующей сессией
// и кладёт её claims в контекст. Иначе отвечает 401.
func SessionMiddleware(sessions SessionValidator, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := TokenFromRequest(r, cookieName)
			if token == "" {
				log.Info("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			claims, err := sessions.Validate(r.Context(), token)
			if err != nil {
				log.Info("invalid session", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired session"))
				return
			}
			ctx := context.WithValue(r.Context(), Session, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
