package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("material-api/repository")

var (
	ErrMaterialNotFound = errors.New("material not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrUnknownField     = errors.New("unknown field")
)

const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgInvalidTextValue    = "22P02"
	pgStringTooLong       = "22001"

	materialsCodeUnique    = "materials_code_unique"
	materialsBuyPriceCheck = "materials_buy_price_check"
	materialsSupplierFK    = "fk_materials_supplier"
)

// ValidationError is a constraint rejected by the database.
// Its message is safe to show to API clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// constraintError maps Postgres constraint violations to ValidationError.
// Errors that are not constraint violations are returned unchanged.
func constraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if pgErr.ConstraintName == materialsCodeUnique {
			return &ValidationError{Message: "Code must be unique"}
		}
		return &ValidationError{Message: fmt.Sprintf("duplicate value violates %s", pgErr.ConstraintName)}
	case pgCheckViolation:
		if pgErr.ConstraintName == materialsBuyPriceCheck {
			return &ValidationError{Message: "Buy price cannot be less than 100"}
		}
		return &ValidationError{Message: fmt.Sprintf("value violates %s", pgErr.ConstraintName)}
	case pgForeignKeyViolation:
		if pgErr.ConstraintName == materialsSupplierFK {
			return &ValidationError{Message: "Supplier does not exist"}
		}
		return &ValidationError{Message: fmt.Sprintf("reference violates %s", pgErr.ConstraintName)}
	case pgInvalidTextValue:
		return &ValidationError{Message: "invalid value for an enumerated field"}
	case pgStringTooLong:
		return &ValidationError{Message: "value too long for field"}
	}

	return err
}

// endSpan records err on the span before ending it
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
