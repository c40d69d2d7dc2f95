package repository

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SupplierRepository struct {
	db *pgxpool.Pool
}

func NewSupplierRepository(db *pgxpool.Pool) *SupplierRepository {
	return &SupplierRepository{db: db}
}

const supplierColumns = `supplier_id, company_name, contact_name, email, phone_number, tin, address, is_active, created_at, updated_at`

func (r *SupplierRepository) GetAll(ctx context.Context) ([]*models.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY supplier_id`)
}

func (r *SupplierRepository) GetActive(ctx context.Context) ([]*models.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE is_active = true ORDER BY supplier_id`)
}

func (r *SupplierRepository) GetByTIN(ctx context.Context, tin string) ([]*models.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tin = $1`, tin)
}

func (r *SupplierRepository) GetByPhone(ctx context.Context, phone string) ([]*models.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE phone_number = $1`, phone)
}

func (r *SupplierRepository) GetByCompanyName(ctx context.Context, company string) ([]*models.Supplier, error) {
	return r.list(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE company_name ILIKE '%' || $1 || '%'`, company)
}

func (r *SupplierRepository) Create(ctx context.Context, s *models.Supplier) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (company_name, contact_name, email, phone_number, tin, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING supplier_id`,
		s.CompanyName, s.ContactName, s.Email, s.PhoneNumber, s.TIN, s.Address,
	).Scan(&id)
	if err != nil {
		logger.Log.Error("Ошибка создания поставщика (repo)", zap.Error(err))
	}
	return id, err
}

// Delete — мягкое удаление: поставщик остаётся в истории закупок.
func (r *SupplierRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE suppliers SET is_active = false, updated_at = now() WHERE supplier_id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления поставщика (repo)", zap.Error(err), zap.Int64("supplier_id", id))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SupplierRepository) list(ctx context.Context, query string, args ...any) ([]*models.Supplier, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка получения поставщиков (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования поставщика (repo)", zap.Error(err))
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func scanSupplier(row pgx.Row) (*models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(
		&s.ID,
		&s.CompanyName,
		&s.ContactName,
		&s.Email,
		&s.PhoneNumber,
		&s.TIN,
		&s.Address,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
