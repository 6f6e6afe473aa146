package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"material-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SupplierRepository defines the interface for supplier data access
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	List(ctx context.Context) ([]*domain.Supplier, error)
	FindByID(ctx context.Context, id int64) (*domain.Supplier, error)
}

type supplierRepository struct {
	db *sql.DB
}

// NewSupplierRepository creates a new instance of SupplierRepository
func NewSupplierRepository(db *sql.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

// Create inserts a new supplier and fills in its generated ID
func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, supplier.Name).Scan(&supplier.ID, &supplier.CreatedAt)
	if err != nil {
		if cerr := constraintError(err); IsValidationError(cerr) {
			return cerr
		}
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

// List retrieves all suppliers
func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, created_at
		FROM suppliers
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []*domain.Supplier{}
	for rows.Next() {
		supplier := &domain.Supplier{}
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

// FindByID retrieves a supplier by ID
func (r *supplierRepository) FindByID(ctx context.Context, id int64) (_ *domain.Supplier, err error) {
	ctx, span := tracer.Start(ctx, "repository.Supplier.FindByID",
		trace.WithAttributes(attribute.Int64("supplier.id", id)),
	)
	defer func() { endSpan(span, err) }()

	supplier := &domain.Supplier{}
	err = r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM suppliers WHERE id = $1`, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID: %w", err)
	}

	return supplier, nil
}
