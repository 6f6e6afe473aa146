package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"material-api/internal/domain"
	"material-api/internal/metrics"
	"material-api/internal/repository"
	"material-api/internal/validation"

	"go.uber.org/zap"
)

// MinBuyPrice is the lowest accepted buy price. The materials table
// carries the same floor as a CHECK constraint.
const MinBuyPrice = 100.0

// MaterialService defines the business operations behind the material endpoints.
// Every returned error is a *Error.
type MaterialService interface {
	List(ctx context.Context, filters map[string]string) ([]*domain.Material, error)
	Create(ctx context.Context, payload map[string]any) (*domain.Material, error)
	Update(ctx context.Context, id int64, payload map[string]any) (*domain.Material, error)
	Delete(ctx context.Context, id int64) error
}

// MaterialOptions configures a MaterialService. It is read once at construction.
type MaterialOptions struct {
	Spec             validation.Spec
	FilterableFields []string
}

type materialService struct {
	materials  repository.MaterialRepository
	suppliers  repository.SupplierRepository
	spec       validation.Spec
	filterable map[string]bool
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewMaterialService creates a new instance of MaterialService
func NewMaterialService(
	materials repository.MaterialRepository,
	suppliers repository.SupplierRepository,
	opts MaterialOptions,
	m *metrics.Metrics,
	logger *zap.Logger,
) MaterialService {
	filterable := make(map[string]bool, len(opts.FilterableFields))
	for _, field := range opts.FilterableFields {
		filterable[field] = true
	}

	return &materialService{
		materials:  materials,
		suppliers:  suppliers,
		spec:       opts.Spec,
		filterable: filterable,
		metrics:    m,
		logger:     logger,
	}
}

// List returns materials matching the requested filters that are on the allow-list
func (s *materialService) List(ctx context.Context, filters map[string]string) ([]*domain.Material, error) {
	applied := make(map[string]string)
	for key, value := range filters {
		if s.filterable[key] {
			applied[key] = value
		}
	}

	materials, err := s.materials.List(ctx, applied)
	if err != nil {
		return nil, s.fail("list", internal(err))
	}

	s.metrics.ObserveOperation("list", metrics.OutcomeSuccess)
	return materials, nil
}

// Create validates a full payload and stores a new material
func (s *materialService) Create(ctx context.Context, payload map[string]any) (*domain.Material, error) {
	if len(payload) == 0 {
		return nil, s.fail("create", invalidf("No data provided"))
	}

	if err := validation.Validate(ctx, payload, s.spec, s.materials); err != nil {
		return nil, s.fail("create", invalidf("%s", err.Error()))
	}

	if missing := s.spec.Missing(payload); len(missing) > 0 {
		return nil, s.fail("create", invalidf("missing fields in request: %s", strings.Join(missing, ", ")))
	}

	rawPrice := payload["buy_price"]
	if rawPrice == nil {
		return nil, s.fail("create", invalidf("Buy price is required"))
	}
	price, ok := asFloat(rawPrice)
	if !ok {
		return nil, s.fail("create", invalidf("field 'buy_price' is out of range"))
	}
	if price == 0 {
		return nil, s.fail("create", invalidf("Buy price is required"))
	}
	if price < MinBuyPrice {
		return nil, s.fail("create", priceFloorError())
	}

	if err := s.checkSupplier(ctx, payload["supplier_id"]); err != nil {
		return nil, s.fail("create", err)
	}

	material := &domain.Material{}
	if err := applyPayload(material, payload); err != nil {
		return nil, s.fail("create", err)
	}

	if err := s.materials.Create(ctx, material); err != nil {
		return nil, s.fail("create", persistenceError(err))
	}

	s.logger.Info("Material created",
		zap.Int64("material_id", material.ID),
		zap.String("code", material.Code),
	)
	s.metrics.ObserveOperation("create", metrics.OutcomeSuccess)
	return material, nil
}

// Update applies the fields present in payload to an existing material
func (s *materialService) Update(ctx context.Context, id int64, payload map[string]any) (*domain.Material, error) {
	material, err := s.findMaterial(ctx, id)
	if err != nil {
		return nil, s.fail("update", err)
	}

	if len(payload) == 0 {
		return nil, s.fail("update", invalidf("No data provided"))
	}

	if err := validation.Validate(ctx, payload, s.spec, s.materials); err != nil {
		return nil, s.fail("update", invalidf("%s", err.Error()))
	}

	if raw, ok := payload["buy_price"]; ok && raw != nil {
		price, ok := asFloat(raw)
		if !ok {
			return nil, s.fail("update", invalidf("field 'buy_price' is out of range"))
		}
		if price < MinBuyPrice {
			return nil, s.fail("update", priceFloorError())
		}
	}

	if raw, ok := payload["supplier_id"]; ok && raw != nil {
		if err := s.checkSupplier(ctx, raw); err != nil {
			return nil, s.fail("update", err)
		}
	}

	if err := applyPayload(material, payload); err != nil {
		return nil, s.fail("update", err)
	}

	if err := s.materials.Update(ctx, material); err != nil {
		if errors.Is(err, repository.ErrMaterialNotFound) {
			return nil, s.fail("update", notFound("Material not found", err))
		}
		return nil, s.fail("update", persistenceError(err))
	}

	s.logger.Info("Material updated", zap.Int64("material_id", material.ID))
	s.metrics.ObserveOperation("update", metrics.OutcomeSuccess)
	return material, nil
}

// Delete removes an existing material
func (s *materialService) Delete(ctx context.Context, id int64) error {
	if _, err := s.findMaterial(ctx, id); err != nil {
		return s.fail("delete", err)
	}

	if err := s.materials.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMaterialNotFound) {
			return s.fail("delete", notFound("Material not found", err))
		}
		return s.fail("delete", internal(err))
	}

	s.logger.Info("Material deleted", zap.Int64("material_id", id))
	s.metrics.ObserveOperation("delete", metrics.OutcomeSuccess)
	return nil
}

func (s *materialService) findMaterial(ctx context.Context, id int64) (*domain.Material, *Error) {
	material, err := s.materials.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMaterialNotFound) {
			return nil, notFound("Material not found", err)
		}
		return nil, internal(err)
	}
	return material, nil
}

func (s *materialService) checkSupplier(ctx context.Context, raw any) *Error {
	supplierID, ok := asInt64(raw)
	if !ok {
		return invalidf("field 'supplier_id' is out of range")
	}

	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			return notFound("Supplier not found", err)
		}
		return internal(err)
	}
	return nil
}

func priceFloorError() *Error {
	return invalidf("Buy price cannot be less than %s", strconv.FormatFloat(MinBuyPrice, 'f', -1, 64))
}

// persistenceError maps a failed write: constraint violations are the
// client's fault, anything else is ours
func persistenceError(err error) *Error {
	if repository.IsValidationError(err) {
		return validationFailed(err)
	}
	return internal(err)
}

// fail logs and counts a failed operation and returns it as an error
func (s *materialService) fail(operation string, err error) error {
	var serr *Error
	if !errors.As(err, &serr) {
		serr = internal(err)
	}

	if serr.Kind == KindInternal {
		s.logger.Error("Material operation failed",
			zap.String("operation", operation),
			zap.Error(serr.Err),
		)
	} else {
		s.logger.Debug("Material operation rejected",
			zap.String("operation", operation),
			zap.String("reason", serr.Message),
		)
	}

	s.metrics.ObserveOperation(operation, serr.Kind.String())
	return serr
}
