package repository

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AuditLogRepository struct {
	db *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, action, description, table_name)
		VALUES ($1, $2, $3, $4)`,
		entry.UserID, entry.Action, entry.Description, entry.TableName,
	)
	if err != nil {
		logger.Log.Error("Ошибка записи в журнал аудита (repo)", zap.Error(err), zap.String("action", entry.Action))
	}
	return err
}

func (r *AuditLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.AuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT audit_id, user_id, action, description, table_name, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Description, &e.TableName, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
