package services

import (
	"context"
	"testing"
	"time"

	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User
	lastUser *models.User
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = int64(len(m.users) + 1)
	m.users[user.Username] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetActiveUsers(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	if _, ok := m.users[username]; !ok {
		return 0, nil
	}
	delete(m.users, username)
	return 1, nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	return nil
}

func TestRegisterUser(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo, &mockAudit{})

	user, err := service.RegisterUser(context.Background(), &models.SignupRequest{
		Username:    "kasir1",
		FullName:    "Dina",
		LastName:    "Putri",
		Email:       "Dina@POS.local",
		PhoneNumber: "0812345678",
		Password:    "secret123",
	})
	if err != nil {
		t.Fatalf("регистрация должна пройти: %v", err)
	}
	if user.Email != "dina@pos.local" {
		t.Errorf("email должен нормализоваться, получили %q", user.Email)
	}
	if user.Role != "biller" {
		t.Errorf("новый пользователь должен получать роль biller, получили %q", user.Role)
	}
	if repo.lastUser.PasswordHash == "secret123" {
		t.Error("пароль должен храниться только в виде хеша")
	}
	if !utils.CheckPasswordHash("secret123", repo.lastUser.PasswordHash) {
		t.Error("хеш пароля не совпадает с исходным паролем")
	}
}

func TestLoginByUsername(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	audit := &mockAudit{}
	service := NewAuthService(repo, audit)

	if _, err := service.RegisterUser(context.Background(), &models.SignupRequest{
		Username:    "kasir1",
		FullName:    "Dina",
		LastName:    "Putri",
		Email:       "dina@pos.local",
		PhoneNumber: "0812345678",
		Password:    "secret123",
	}); err != nil {
		t.Fatal(err)
	}

	token, user, err := service.LoginByUsername(context.Background(), "kasir1", "secret123", "test-secret", "pos-app", time.Hour)
	if err != nil {
		t.Fatalf("вход должен пройти: %v", err)
	}
	if token == "" {
		t.Error("при входе должен выдаваться токен")
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"})); err != nil {
		t.Fatalf("токен должен проходить проверку подписи: %v", err)
	}
	if iss, _ := claims["iss"].(string); iss != "pos-app" {
		t.Errorf("неверный issuer: %q", iss)
	}
	if role, _ := claims["role"].(string); role != "biller" {
		t.Errorf("неверная роль в токене: %q", role)
	}
	if user.Username != "kasir1" {
		t.Errorf("вернулся не тот пользователь: %q", user.Username)
	}
	if len(audit.entries) == 0 || audit.entries[len(audit.entries)-1].Action != "login" {
		t.Error("вход должен попадать в аудит")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo, &mockAudit{})

	if _, err := service.RegisterUser(context.Background(), &models.SignupRequest{
		Username:    "kasir1",
		FullName:    "Dina",
		LastName:    "Putri",
		Email:       "dina@pos.local",
		PhoneNumber: "0812345678",
		Password:    "secret123",
	}); err != nil {
		t.Fatal(err)
	}

	_, _, err := service.LoginByUsername(context.Background(), "kasir1", "wrongpass", "test-secret", "pos-app", time.Hour)
	if err != ErrWrongPassword {
		t.Fatalf("ожидали ErrWrongPassword, получили %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo, &mockAudit{})

	_, _, err := service.LoginByEmail(context.Background(), "ghost@pos.local", "secret123", "test-secret", "pos-app", time.Hour)
	if err != ErrLoginNotFound {
		t.Fatalf("ожидали ErrLoginNotFound, получили %v", err)
	}
}
