package service

import (
	"context"
	"strings"

	"material-api/internal/domain"
	"material-api/internal/repository"

	"go.uber.org/zap"
)

// SupplierService defines the business operations for suppliers
type SupplierService interface {
	Create(ctx context.Context, name string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
}

type supplierService struct {
	suppliers repository.SupplierRepository
	logger    *zap.Logger
}

// NewSupplierService creates a new instance of SupplierService
func NewSupplierService(suppliers repository.SupplierRepository, logger *zap.Logger) SupplierService {
	return &supplierService{suppliers: suppliers, logger: logger}
}

func (s *supplierService) Create(ctx context.Context, name string) (*domain.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("missing fields in request: name")
	}

	supplier := &domain.Supplier{Name: name}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		if repository.IsValidationError(err) {
			return nil, validationFailed(err)
		}
		s.logger.Error("Failed to create supplier", zap.Error(err))
		return nil, internal(err)
	}

	s.logger.Info("Supplier created", zap.Int64("supplier_id", supplier.ID))
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list suppliers", zap.Error(err))
		return nil, internal(err)
	}
	return suppliers, nil
}
