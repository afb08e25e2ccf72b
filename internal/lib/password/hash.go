// Package password хеширует пароли администраторов bcrypt и проверяет их.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength предел bcrypt в байтах. Более длинные пароли отвергаются, а не обрезаются.
const MaxLength = 72

// ErrTooLong возвращается GetHash для пароля длиннее MaxLength байт.
var ErrTooLong = errors.New("password is longer than 72 bytes")

// GetHash возвращает bcrypt-хэш пароля со стоимостью bcrypt.DefaultCost.
// Соль случайна, поэтому два вызова с одним паролем дают разные хэши.
func GetHash(plaintext string) (string, error) {
	const op = "password.GetHash"

	if len(plaintext) > MaxLength {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hash), nil
}

// CompareHash возвращает nil, если plaintext соответствует хэшу.
func CompareHash(hash, plaintext string) error {
	const op = "password.CompareHash"

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Verify сообщает, соответствует ли пароль хэшу. Испорченный или пустой хэш не совпадает ни с чем.
func Verify(plaintext, hash string) bool {
	return CompareHash(hash, plaintext) == nil
}
