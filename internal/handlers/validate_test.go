package handlers

import (
	"testing"

	"github.com/POS-Ninjas/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationReason(t *testing.T) {
	base := models.SignupRequest{
		Username:    "kasir1",
		FullName:    "Dina",
		LastName:    "Putri",
		Email:       "dina@pos.local",
		PhoneNumber: "0812345678",
		Password:    "secret123",
	}
	require.NoError(t, validate.Struct(base), "эталонная форма должна быть валидной")

	cases := []struct {
		name   string
		mutate func(*models.SignupRequest)
		reason string
	}{
		{"пустой username", func(r *models.SignupRequest) { r.Username = "" }, "Username is required"},
		{"битый email", func(r *models.SignupRequest) { r.Email = "not-an-email" }, "Invalid email format"},
		{"буквы в телефоне", func(r *models.SignupRequest) { r.PhoneNumber = "08123abc78" }, "Phone must be numbers only"},
		{"короткий телефон", func(r *models.SignupRequest) { r.PhoneNumber = "0812345" }, "Phone number must be equal to 10 digits"},
		{"короткий пароль", func(r *models.SignupRequest) { r.Password = "12345" }, "Password must be at least 6 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			err := validate.Struct(req)
			require.Error(t, err)
			assert.Equal(t, tc.reason, validationReason(err))
		})
	}
}
