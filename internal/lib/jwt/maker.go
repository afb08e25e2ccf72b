package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "newsletter"

// SessionClaims описывает данные сессии, хранящиеся в JWT.
type SessionClaims struct {
	AccountID            int64  `json:"aid"`
	Email                string `json:"email"`
	jwt.RegisteredClaims        // ID (jti), ExpiresAt, IssuedAt
}

// GenerateToken создает токен для учётной записи и возвращает его вместе с claims.
func (j *MakerImpl) GenerateToken(accountID int64, email string) (string, *SessionClaims, error) {
	const op = "jwt.GenerateToken"
	now := time.Now()
	claims := &SessionClaims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return signed, claims, nil
}

// ParseToken проверяет подпись и срок действия токена и возвращает его claims.
func (j *MakerImpl) ParseToken(tokenStr string) (*SessionClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%s: token has no id", op)
	}
	return claims, nil
}
