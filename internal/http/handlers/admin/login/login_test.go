package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsletter/internal/config"
	"github.com/magabrotheeeer/newsletter/internal/lib/jwt"
	"github.com/magabrotheeeer/newsletter/internal/models"
)

type AuthMock struct {
	mock.Mock
}

func (m *AuthMock) Authenticate(ctx context.Context, email, plaintext string) (*models.Account, error) {
	args := m.Called(ctx, email, plaintext)
	acc, _ := args.Get(0).(*models.Account)
	return acc, args.Error(1)
}

type IssuerMock struct {
	mock.Mock
}

func (m *IssuerMock) Issue(acc *models.Account) (string, *jwt.SessionClaims, error) {
	args := m.Called(acc)
	claims, _ := args.Get(1).(*jwt.SessionClaims)
	return args.String(0), claims, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	acc := &models.Account{ID: 7, Email: "admin@example.com", IsActive: true}
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := &jwt.SessionClaims{
		AccountID: 7,
		Email:     "admin@example.com",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(expires),
		},
	}
	cookieCfg := config.Session{CookieName: "sid", Secure: true}

	tests := []struct {
		name           string
		body           string
		setupMock      func(a *AuthMock, s *IssuerMock)
		wantStatusCode int
		wantError      string
		wantCookie     bool
	}{
		{
			name: "success",
			body: `{"email":"admin@example.com","password":"supersecret"}`,
			setupMock: func(a *AuthMock, s *IssuerMock) {
				a.On("Authenticate", mock.Anything, "admin@example.com", "supersecret").Return(acc, nil).Once()
				s.On("Issue", acc).Return("token-abc", claims, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCookie:     true,
		},
		{
			name: "wrong credentials",
			body: `{"email":"admin@example.com","password":"wrong"}`,
			setupMock: func(a *AuthMock, _ *IssuerMock) {
				a.On("Authenticate", mock.Anything, "admin@example.com", "wrong").Return(nil, nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
		},
		{
			name:           "missing password",
			body:           `{"email":"admin@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
		},
		{
			name:           "invalid json",
			body:           `{`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name: "storage failure",
			body: `{"email":"admin@example.com","password":"supersecret"}`,
			setupMock: func(a *AuthMock, _ *IssuerMock) {
				a.On("Authenticate", mock.Anything, "admin@example.com", "supersecret").Return(nil, errors.New("db down")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
		{
			name: "issue failure",
			body: `{"email":"admin@example.com","password":"supersecret"}`,
			setupMock: func(a *AuthMock, s *IssuerMock) {
				a.On("Authenticate", mock.Anything, "admin@example.com", "supersecret").Return(acc, nil).Once()
				s.On("Issue", acc).Return("", nil, errors.New("sign failed")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthMock)
			issuerMock := new(IssuerMock)
			if tt.setupMock != nil {
				tt.setupMock(authMock, issuerMock)
			}
			handler := New(newNoopLogger(), authMock, issuerMock, cookieCfg)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "token-abc", data["token"])
				assert.Equal(t, "admin@example.com", data["email"])
			}

			cookies := rec.Result().Cookies()
			if tt.wantCookie {
				require.Len(t, cookies, 1)
				c := cookies[0]
				assert.Equal(t, "sid", c.Name)
				assert.Equal(t, "token-abc", c.Value)
				assert.True(t, c.HttpOnly)
				assert.True(t, c.Secure)
				assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
				assert.Equal(t, "/", c.Path)
			} else {
				assert.Empty(t, cookies)
			}

			authMock.AssertExpectations(t)
			issuerMock.AssertExpectations(t)
		})
	}
}
