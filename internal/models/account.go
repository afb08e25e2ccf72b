package models

import "time"

// Account представляет учётную запись администратора.
// Email используется как идентификатор для входа, пароль хранится только в виде bcrypt-хэша.
// Неактивная учётная запись не проходит аутентификацию даже с верным паролем.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
