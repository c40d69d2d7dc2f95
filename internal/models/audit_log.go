package models

import "time"

type AuditLog struct {
	ID          int64     `json:"audit_id"`
	UserID      int64     `json:"user_id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	TableName   string    `json:"table_name"`
	CreatedAt   time.Time `json:"created_at"`
}
