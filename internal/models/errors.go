package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation вид ошибки для некорректных или отсутствующих входных данных.
	ErrValidation = errors.New("validation error")
	// ErrDuplicate вид ошибки для нарушения уникальности (email уже существует).
	ErrDuplicate = errors.New("duplicate")
)

// Причины ошибок, которые видит вызывающая сторона.
const (
	ReasonRequired          = "required"
	ReasonInvalidFormat     = "invalid format"
	ReasonTooShort          = "too short"
	ReasonAlreadySubscribed = "already subscribed"
	ReasonAlreadyExists     = "already exists"
)

// ValidationError описывает ошибку валидации конкретного поля.
// Сопоставляется с ErrValidation через errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is позволяет проверять вид ошибки через errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateError описывает нарушение уникальности поля.
// Сопоставляется с ErrDuplicate через errors.Is.
type DuplicateError struct {
	Field  string
	Reason string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is позволяет проверять вид ошибки через errors.Is(err, ErrDuplicate).
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
