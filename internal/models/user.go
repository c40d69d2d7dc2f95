package models

import "time"

type User struct {
	ID           int64      `json:"user_id"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phone_number"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role_name"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SignupRequest — форма регистрации (валидируется validator/v10, см. handlers).
type SignupRequest struct {
	Username    string `json:"username" validate:"required"`
	FullName    string `json:"fullname" validate:"required,min=2"`
	LastName    string `json:"lastname" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,len=10,numeric"`
	Password    string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}
