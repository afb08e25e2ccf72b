// Package models содержит доменные структуры рассылки: подписчика,
// учётную запись администратора и виды доменных ошибок.
package models

import "time"

// DefaultSubscriberName подставляется, если имя не передано или пустое после обрезки пробелов.
const DefaultSubscriberName = "Subscriber"

// Subscriber представляет подписчика рассылки.
// Email хранится в нормализованном виде (нижний регистр, без пробелов по краям)
// и уникален без учёта регистра. SubscribedAt задаётся один раз при создании.
type Subscriber struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// SubscriberCreatedEvent публикуется в брокер после успешной подписки.
type SubscriberCreatedEvent struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	SubscribedAt time.Time `json:"subscribed_at"`
}
