package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                int64           `json:"product_id"`
	Name              string          `json:"product_name"`
	Code              *string         `json:"product_code,omitempty"`
	Barcode           *string         `json:"barcode,omitempty"`
	SupplierID        *int64          `json:"supplier_id,omitempty"`
	Description       *string         `json:"description,omitempty"`
	UnitPurchasePrice decimal.Decimal `json:"unit_purchase_price"`
	UnitSellingPrice  decimal.Decimal `json:"unit_selling_price"`
	CurrentStock      int             `json:"current_stock"`
	ReorderLevel      int             `json:"reorder_level"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type CreateProductRequest struct {
	Name              string          `json:"product_name" validate:"required"`
	Code              *string         `json:"product_code,omitempty"`
	Barcode           *string         `json:"barcode,omitempty"`
	SupplierID        *int64          `json:"supplier_id,omitempty"`
	Description       *string         `json:"description,omitempty"`
	UnitPurchasePrice decimal.Decimal `json:"unit_purchase_price"`
	UnitSellingPrice  decimal.Decimal `json:"unit_selling_price"`
	CurrentStock      int             `json:"current_stock" validate:"min=0"`
	ReorderLevel      int             `json:"reorder_level" validate:"min=0"`
}
