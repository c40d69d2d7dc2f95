package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrWrongPassword = errors.New("Wrong Password, please try again")
	ErrLoginNotFound = errors.New("could not find user")
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetActiveUsers(ctx context.Context) ([]*models.User, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
}

type AuthService struct {
	repo  UserRepo
	audit AuditRecorder
}

func NewAuthService(repo UserRepo, audit AuditRecorder) *AuthService {
	return &AuthService{repo: repo, audit: audit}
}

func (s *AuthService) RegisterUser(ctx context.Context, input *models.SignupRequest) (*models.User, error) {
	logger.WithCtx(ctx).Info("Регистрация пользователя (service)", zap.String("username", input.Username), zap.String("email", input.Email))

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Username:     input.Username,
		FirstName:    input.FullName,
		LastName:     input.LastName,
		Email:        strings.TrimSpace(strings.ToLower(input.Email)),
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hashed,
		Role:         "biller",
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		logger.WithCtx(ctx).Error("Ошибка создания пользователя", zap.Error(err))
		return nil, err
	}

	logger.WithCtx(ctx).Info("Пользователь зарегистрирован (service)", zap.String("username", user.Username), zap.Int64("user_id", user.ID))
	return user, nil
}

// LoginByEmail проверяет пару email/пароль и выдаёт bearer-токен.
func (s *AuthService) LoginByEmail(ctx context.Context, email, password, jwtSecret, issuer string, ttl time.Duration) (string, *models.User, error) {
	logger.WithCtx(ctx).Info("Попытка входа по email (service)", zap.String("email", email))
	user, err := s.repo.GetByEmail(ctx, email)
	return s.finishLogin(ctx, user, err, password, jwtSecret, issuer, ttl)
}

func (s *AuthService) LoginByUsername(ctx context.Context, username, password, jwtSecret, issuer string, ttl time.Duration) (string, *models.User, error) {
	logger.WithCtx(ctx).Info("Попытка входа по username (service)", zap.String("username", username))
	user, err := s.repo.GetByUsername(ctx, username)
	return s.finishLogin(ctx, user, err, password, jwtSecret, issuer, ttl)
}

func (s *AuthService) finishLogin(ctx context.Context, user *models.User, lookupErr error, password, jwtSecret, issuer string, ttl time.Duration) (string, *models.User, error) {
	if lookupErr != nil {
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return "", nil, ErrLoginNotFound
		}
		return "", nil, lookupErr
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.WithCtx(ctx).Warn("Неверный пароль (service)", zap.Int64("user_id", user.ID))
		return "", nil, ErrWrongPassword
	}

	token, err := utils.GenerateToken(jwtSecret, issuer, user.ID, user.Role, ttl)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации access-токена", zap.Error(err))
		return "", nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось обновить last_login", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	if s.audit != nil {
		if err := s.audit.Insert(ctx, &models.AuditLog{
			UserID:      user.ID,
			Action:      "login",
			Description: "user logged in",
			TableName:   "users",
		}); err != nil {
			logger.WithCtx(ctx).Warn("Не удалось записать вход в аудит", zap.Error(err), zap.Int64("user_id", user.ID))
		}
	}

	logger.WithCtx(ctx).Info("Вход выполнен (service)", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return token, user, nil
}

func (s *AuthService) GetActiveUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetActiveUsers(ctx)
}

func (s *AuthService) DeleteUserByUsername(ctx context.Context, username string) (int64, error) {
	logger.WithCtx(ctx).Info("Удаление пользователя (service)", zap.String("username", username))
	return s.repo.DeleteByUsername(ctx, username)
}
