package repository

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/logger"
	"github.com/POS-Ninjas/backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `product_id, product_name, product_code, barcode, supplier_id, description, unit_purchase_price, unit_selling_price, current_stock, reorder_level, is_active, created_at, updated_at`

func (r *ProductRepository) GetAll(ctx context.Context) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY product_id`)
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE product_id = $1`, id))
}

func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode))
}

// GetLowStock — товары, чей остаток опустился до уровня дозаказа.
func (r *ProductRepository) GetLowStock(ctx context.Context) ([]*models.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active = true AND current_stock <= reorder_level ORDER BY current_stock`)
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (product_name, product_code, barcode, supplier_id, description, unit_purchase_price, unit_selling_price, current_stock, reorder_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING product_id, created_at, updated_at`,
		p.Name, p.Code, p.Barcode, p.SupplierID, p.Description,
		p.UnitPurchasePrice, p.UnitSellingPrice, p.CurrentStock, p.ReorderLevel,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания товара (repo)", zap.Error(err), zap.String("product_name", p.Name))
	}
	return err
}

func (r *ProductRepository) list(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка получения товаров (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования товара (repo)", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Code,
		&p.Barcode,
		&p.SupplierID,
		&p.Description,
		&p.UnitPurchasePrice,
		&p.UnitSellingPrice,
		&p.CurrentStock,
		&p.ReorderLevel,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
