package services

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/repository"
)

type ProductService struct{ repo *repository.ProductRepository }

func NewProductService(r *repository.ProductRepository) *ProductService {
	return &ProductService{repo: r}
}

func (s *ProductService) GetAll(ctx context.Context) ([]*models.Product, error) {
	return s.repo.GetAll(ctx)
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

func (s *ProductService) GetLowStock(ctx context.Context) ([]*models.Product, error) {
	return s.repo.GetLowStock(ctx)
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{
		Name:              req.Name,
		Code:              req.Code,
		Barcode:           req.Barcode,
		SupplierID:        req.SupplierID,
		Description:       req.Description,
		UnitPurchasePrice: req.UnitPurchasePrice,
		UnitSellingPrice:  req.UnitSellingPrice,
		CurrentStock:      req.CurrentStock,
		ReorderLevel:      req.ReorderLevel,
		IsActive:          true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
