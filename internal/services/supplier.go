package services

import (
	"context"

	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/repository"
)

type SupplierService struct{ repo *repository.SupplierRepository }

func NewSupplierService(r *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: r}
}

func (s *SupplierService) GetAll(ctx context.Context) ([]*models.Supplier, error) {
	return s.repo.GetAll(ctx)
}

func (s *SupplierService) GetActive(ctx context.Context) ([]*models.Supplier, error) {
	return s.repo.GetActive(ctx)
}

func (s *SupplierService) FindByTIN(ctx context.Context, tin string) ([]*models.Supplier, error) {
	return s.repo.GetByTIN(ctx, tin)
}

func (s *SupplierService) FindByPhone(ctx context.Context, phone string) ([]*models.Supplier, error) {
	return s.repo.GetByPhone(ctx, phone)
}

func (s *SupplierService) FindByCompanyName(ctx context.Context, company string) ([]*models.Supplier, error) {
	return s.repo.GetByCompanyName(ctx, company)
}

func (s *SupplierService) Create(ctx context.Context, supplier *models.Supplier) (int64, error) {
	return s.repo.Create(ctx, supplier)
}

func (s *SupplierService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.repo.Delete(ctx, id)
}
