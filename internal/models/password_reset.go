package models

import "time"

// PasswordReset — заявка на сброс пароля. Строка неизменяемая,
// единственный допустимый переход: used_at NULL → timestamp.
type PasswordReset struct {
	ID        int64      `json:"reset_id"`
	UserID    int64      `json:"user_id"`
	Email     string     `json:"email"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
