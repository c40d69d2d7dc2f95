package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/repository"
	"github.com/POS-Ninjas/backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Причины отказа — ровно те строки, которые видит клиент и проверяют тесты.
// Порядок проверок фиксирован: пароль → существование → срок → повторное использование.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrTokenNotFound    = errors.New("token doesn't exist in DB")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenUsed        = errors.New("token has been used")
)

const minPasswordLen = 6

// EmailSender — внешний нотификатор. Ошибка отправки логируется и не
// откатывает созданную заявку.
type EmailSender interface {
	SendPasswordReset(ctx context.Context, toEmail, firstName, resetLink string) error
}

// AuditRecorder — журнал аудита; сбой записи не влияет на исход запроса.
type AuditRecorder interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
}

type PasswordResetService struct {
	repo        repository.PasswordResetRepo
	notifier    EmailSender
	audit       AuditRecorder
	frontendURL string
	tokenTTL    time.Duration
	supersede   bool
	now         func() time.Time
}

func NewPasswordResetService(
	repo repository.PasswordResetRepo,
	notifier EmailSender,
	audit AuditRecorder,
	frontendURL string,
	tokenTTL time.Duration,
	supersede bool,
) *PasswordResetService {
	return &PasswordResetService{
		repo:        repo,
		notifier:    notifier,
		audit:       audit,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		tokenTTL:    tokenTTL,
		supersede:   supersede,
		now:         time.Now,
	}
}

// RequestReset создаёт заявку на сброс и ставит письмо со ссылкой на отправку.
// Токен — случайный UUID v4 (128 бит), в ответ наружу не отдаётся.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (*models.PasswordReset, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.WithCtx(ctx).Info("Запрос на сброс пароля", zap.String("email", email))

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WithCtx(ctx).Warn("Пользователь не найден при запросе сброса", zap.String("email", email))
			return nil, ErrUserNotFound
		}
		logger.WithCtx(ctx).Error("Ошибка поиска пользователя при запросе сброса", zap.Error(err))
		return nil, err
	}

	if s.supersede {
		n, err := s.repo.InvalidateOutstanding(ctx, user.ID)
		if err != nil {
			// Политика supersede — best effort: новая заявка создаётся в любом случае.
			logger.WithCtx(ctx).Warn("Не удалось инвалидировать старые токены", zap.Error(err), zap.Int64("user_id", user.ID))
		} else if n > 0 {
			logger.WithCtx(ctx).Info("Старые токены сброса инвалидированы", zap.Int64("user_id", user.ID), zap.Int64("count", n))
		}
	}

	reset := &models.PasswordReset{
		UserID: user.ID,
		// Снимок адреса на момент выдачи: смена email в профиле не влияет
		// на уже выданную заявку.
		Email:     user.Email,
		Token:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.tokenTTL),
	}
	if err := s.repo.Create(ctx, reset); err != nil {
		logger.WithCtx(ctx).Error("Ошибка сохранения заявки на сброс", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, reset.Token)
	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.FirstName, resetLink); err != nil {
		// Заявка уже создана и остаётся погашаемой: отправку не откатываем.
		logger.WithCtx(ctx).Error("Ошибка отправки письма для сброса пароля",
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
			zap.Error(err),
		)
	}

	logger.WithCtx(ctx).Info("Заявка на сброс пароля создана",
		zap.Int64("user_id", user.ID),
		zap.Time("expires_at", reset.ExpiresAt),
	)
	return reset, nil
}

// ResetPassword гасит токен и устанавливает новый пароль.
// Возвращает одну из доменных ошибок (ErrPasswordTooShort, ErrTokenNotFound,
// ErrTokenExpired, ErrTokenUsed) либо ошибку хранилища.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	logger.WithCtx(ctx).Info("Попытка сброса пароля по токену")

	// Дешёвая проверка до обращения к хранилищу: форма отказа одинаковая,
	// существование токена не раскрывается.
	if len(newPassword) < minPasswordLen {
		logger.WithCtx(ctx).Warn("Слишком короткий новый пароль")
		return ErrPasswordTooShort
	}

	rec, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.WithCtx(ctx).Warn("Токен сброса не найден")
			return ErrTokenNotFound
		}
		logger.WithCtx(ctx).Error("Ошибка чтения токена сброса", zap.Error(err))
		return err
	}

	// Срок проверяется раньше used_at: просроченный непогашенный токен
	// отвечает "expired". Порядок различим снаружи, тесты его фиксируют.
	if s.now().After(rec.ExpiresAt) {
		logger.WithCtx(ctx).Warn("Просроченный токен сброса", zap.Int64("user_id", rec.UserID))
		return ErrTokenExpired
	}

	if rec.UsedAt != nil {
		logger.WithCtx(ctx).Warn("Повторное использование токена сброса", zap.Int64("user_id", rec.UserID))
		return ErrTokenUsed
	}

	pwHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка генерации хеша пароля", zap.Error(err), zap.Int64("user_id", rec.UserID))
		return err
	}

	userID, err := s.repo.ConsumeAndSetPassword(ctx, token, pwHash)
	if err != nil {
		if errors.Is(err, repository.ErrResetConsumed) {
			// Конкурентное погашение: условный UPDATE выиграл другой запрос.
			logger.WithCtx(ctx).Warn("Токен погашен конкурентным запросом", zap.Int64("user_id", rec.UserID))
			return ErrTokenUsed
		}
		logger.WithCtx(ctx).Error("Ошибка погашения токена сброса", zap.Error(err), zap.Int64("user_id", rec.UserID))
		return err
	}

	if s.audit != nil {
		if err := s.audit.Insert(ctx, &models.AuditLog{
			UserID:      userID,
			Action:      "password_reset",
			Description: "password changed via reset token",
			TableName:   "users",
		}); err != nil {
			logger.WithCtx(ctx).Warn("Не удалось записать сброс пароля в аудит", zap.Error(err), zap.Int64("user_id", userID))
		}
	}

	logger.WithCtx(ctx).Info("Пароль успешно сброшен", zap.Int64("user_id", userID))
	return nil
}
