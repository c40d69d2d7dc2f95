package repository

import (
	"context"
	"errors"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrResetConsumed — токен уже был погашен конкурентным запросом:
// условный UPDATE не затронул ни одной строки.
var ErrResetConsumed = errors.New("reset token already consumed")

type PasswordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

type PasswordResetRepo interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	ConsumeAndSetPassword(ctx context.Context, token, passwordHash string) (int64, error)
	InvalidateOutstanding(ctx context.Context, userID int64) (int64, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

func (r *PasswordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO password_resets (user_id, email, token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING reset_id, created_at`,
		reset.UserID, reset.Email, reset.Token, reset.ExpiresAt,
	).Scan(&reset.ID, &reset.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания заявки на сброс пароля (repo)", zap.Error(err), zap.Int64("user_id", reset.UserID))
	}
	return err
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	row := r.db.QueryRow(ctx, `
		SELECT reset_id, user_id, email, token, expires_at, used_at, created_at
		FROM password_resets
		WHERE token = $1`, token)

	var reset models.PasswordReset
	err := row.Scan(
		&reset.ID,
		&reset.UserID,
		&reset.Email,
		&reset.Token,
		&reset.ExpiresAt,
		&reset.UsedAt,
		&reset.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

// ConsumeAndSetPassword гасит токен и обновляет хеш пароля владельца в одной
// транзакции. Пометка used_at — условный UPDATE по used_at IS NULL, так что из
// конкурентных погашений выигрывает ровно одно; остальные получают
// ErrResetConsumed, транзакция откатывается.
func (r *PasswordResetRepository) ConsumeAndSetPassword(ctx context.Context, token, passwordHash string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx, `
		UPDATE password_resets
		SET used_at = now()
		WHERE token = $1 AND used_at IS NULL
		RETURNING user_id`, token,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrResetConsumed
		}
		logger.Log.Error("Ошибка пометки токена использованным (repo)", zap.Error(err))
		return 0, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE user_id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		logger.Log.Error("Ошибка обновления пароля пользователя (repo)", zap.Error(err), zap.Int64("user_id", userID))
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return userID, nil
}

// InvalidateOutstanding досрочно истекает непогашенные токены пользователя.
// Используется при включённой политике supersede.
func (r *PasswordResetRepository) InvalidateOutstanding(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE password_resets
		SET expires_at = now()
		WHERE user_id = $1 AND used_at IS NULL AND expires_at > now()`, userID)
	if err != nil {
		logger.Log.Error("Ошибка инвалидации старых токенов (repo)", zap.Error(err), zap.Int64("user_id", userID))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PasswordResetRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, username, first_name, last_name, email, phone_number, password_hash, role_name, is_active, last_login, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
		LIMIT 1`, email)

	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PhoneNumber,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
