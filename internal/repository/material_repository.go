package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"material-api/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MaterialRepository defines the interface for material data access
type MaterialRepository interface {
	Create(ctx context.Context, material *domain.Material) error
	Update(ctx context.Context, material *domain.Material) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Material, error)
	List(ctx context.Context, filters map[string]string) ([]*domain.Material, error)
	Count(ctx context.Context) (int, error)
	SelectionValues(ctx context.Context, field string) ([]string, error)
}

// Columns that may appear in an equality filter. Anything else is dropped
// before the query is built.
var filterableColumns = map[string]bool{
	"name":        true,
	"code":        true,
	"type":        true,
	"supplier_id": true,
}

// Selection fields and the Postgres enum type holding their legal values
var selectionEnums = map[string]string{
	"type": "material_type",
}

type materialRepository struct {
	db *sql.DB
}

// NewMaterialRepository creates a new instance of MaterialRepository
func NewMaterialRepository(db *sql.DB) MaterialRepository {
	return &materialRepository{db: db}
}

// Create inserts a new material and fills in its generated ID and timestamps
func (r *materialRepository) Create(ctx context.Context, material *domain.Material) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Material.Create",
		trace.WithAttributes(
			attribute.String("material.code", material.Code),
			attribute.String("material.type", string(material.Type)),
			attribute.Float64("material.buy_price", material.BuyPrice),
			attribute.Int64("material.supplier_id", material.SupplierID),
		),
	)
	defer func() { endSpan(span, err) }()

	query := `
		INSERT INTO materials (name, code, type, buy_price, supplier_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		material.Name,
		material.Code,
		string(material.Type),
		material.BuyPrice,
		material.SupplierID,
	).Scan(&material.ID, &material.CreatedAt, &material.UpdatedAt)

	if err != nil {
		if cerr := constraintError(err); IsValidationError(cerr) {
			return cerr
		}
		return fmt.Errorf("failed to create material: %w", err)
	}

	span.SetAttributes(attribute.Int64("material.id", material.ID))
	return nil
}

// Update writes every column of an existing material
func (r *materialRepository) Update(ctx context.Context, material *domain.Material) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Material.Update",
		trace.WithAttributes(attribute.Int64("material.id", material.ID)),
	)
	defer func() { endSpan(span, err) }()

	query := `
		UPDATE materials
		SET name = $2, code = $3, type = $4, buy_price = $5, supplier_id = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		material.ID,
		material.Name,
		material.Code,
		string(material.Type),
		material.BuyPrice,
		material.SupplierID,
	).Scan(&material.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMaterialNotFound
		}
		if cerr := constraintError(err); IsValidationError(cerr) {
			return cerr
		}
		return fmt.Errorf("failed to update material: %w", err)
	}

	return nil
}

// Delete removes a material
func (r *materialRepository) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Material.Delete",
		trace.WithAttributes(attribute.Int64("material.id", id)),
	)
	defer func() { endSpan(span, err) }()

	result, err := r.db.ExecContext(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMaterialNotFound
	}

	return nil
}

// FindByID retrieves a material by ID
func (r *materialRepository) FindByID(ctx context.Context, id int64) (_ *domain.Material, err error) {
	ctx, span := tracer.Start(ctx, "repository.Material.FindByID",
		trace.WithAttributes(attribute.Int64("material.id", id)),
	)
	defer func() { endSpan(span, err) }()

	query := `
		SELECT id, name, code, type, buy_price, supplier_id, created_at, updated_at
		FROM materials
		WHERE id = $1
	`

	material := &domain.Material{}
	err = r.db.QueryRowContext(ctx, query, id).Scan(
		&material.ID,
		&material.Name,
		&material.Code,
		&material.Type,
		&material.BuyPrice,
		&material.SupplierID,
		&material.CreatedAt,
		&material.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("failed to find material by ID: %w", err)
	}

	return material, nil
}

// List retrieves materials matching every equality filter, ordered by ID.
// Filter keys outside filterableColumns are ignored.
func (r *materialRepository) List(ctx context.Context, filters map[string]string) (_ []*domain.Material, err error) {
	ctx, span := tracer.Start(ctx, "repository.Material.List",
		trace.WithAttributes(attribute.Int("filters.count", len(filters))),
	)
	defer func() { endSpan(span, err) }()

	// Sorted so the generated SQL is stable
	keys := make([]string, 0, len(filters))
	for key := range filters {
		if filterableColumns[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for i, key := range keys {
		// Compare as text so an unknown enum label matches nothing instead of failing the query
		conditions = append(conditions, fmt.Sprintf("%s::text = $%d", key, i+1))
		args = append(args, filters[key])
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, name, code, type, buy_price, supplier_id, created_at, updated_at
		FROM materials
		%s
		ORDER BY id ASC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	materials := []*domain.Material{}
	for rows.Next() {
		material := &domain.Material{}
		err := rows.Scan(
			&material.ID,
			&material.Name,
			&material.Code,
			&material.Type,
			&material.BuyPrice,
			&material.SupplierID,
			&material.CreatedAt,
			&material.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, material)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating materials: %w", err)
	}

	return materials, nil
}

// Count returns the number of stored materials
func (r *materialRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM materials`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return total, nil
}

// SelectionValues returns the legal values of a selection field, read from
// the enum type backing its column
func (r *materialRepository) SelectionValues(ctx context.Context, field string) (_ []string, err error) {
	ctx, span := tracer.Start(ctx, "repository.Material.SelectionValues",
		trace.WithAttributes(attribute.String("field", field)),
	)
	defer func() { endSpan(span, err) }()

	enumType, ok := selectionEnums[field]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	query := fmt.Sprintf(`SELECT unnest(enum_range(NULL::%s))::text`, enumType)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load values for %s: %w", field, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value for %s: %w", field, err)
		}
		values = append(values, value)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating values for %s: %w", field, err)
	}

	return values, nil
}
