package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken создаёт access-токен (HS256).
func GenerateToken(secret, issuer string, userID int64, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"role":    role,
		"iss":     issuer,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(), // issued at — доп. уникальность
		"user_id": userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
