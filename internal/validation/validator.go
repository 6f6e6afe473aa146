package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// FieldSpec describes the accepted kinds of one payload field
type FieldSpec struct {
	Name      string
	Kinds     []Kind
	Selection bool
}

// Accepts reports whether k is one of the field's accepted kinds
func (f FieldSpec) Accepts(k Kind) bool {
	return slices.Contains(f.Kinds, k)
}

func (f FieldSpec) expected() string {
	names := make([]string, len(f.Kinds))
	for i, k := range f.Kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

// Spec is an ordered, read-only set of field specifications.
// Build it once and share it between requests.
type Spec struct {
	fields []FieldSpec
}

// NewSpec builds a Spec. Field order is kept and drives the order of checks.
func NewSpec(fields ...FieldSpec) Spec {
	copied := make([]FieldSpec, len(fields))
	for i, f := range fields {
		f.Kinds = slices.Clone(f.Kinds)
		copied[i] = f
	}
	return Spec{fields: copied}
}

// Fields returns a copy of the field specifications
func (s Spec) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	for i, f := range s.fields {
		f.Kinds = slices.Clone(f.Kinds)
		out[i] = f
	}
	return out
}

// Names returns the field names in declaration order
func (s Spec) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field specification by name
func (s Spec) Field(name string) (FieldSpec, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Missing returns the spec fields that are absent from the payload
func (s Spec) Missing(payload map[string]any) []string {
	var missing []string
	for _, f := range s.fields {
		if _, ok := payload[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// SelectionSource resolves the legal values of a selection field
type SelectionSource interface {
	SelectionValues(ctx context.Context, field string) ([]string, error)
}

// Error is a single field validation failure
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validate checks payload against spec and stops at the first failure.
// Fields absent from the payload or set to null are skipped.
func Validate(ctx context.Context, payload map[string]any, spec Spec, source SelectionSource) error {
	for _, field := range spec.fields {
		value, ok := payload[field.Name]
		if !ok || value == nil {
			continue
		}

		if !field.Accepts(KindOf(value)) {
			return &Error{
				Field:   field.Name,
				Message: fmt.Sprintf("field '%s' must be a %s", field.Name, field.expected()),
			}
		}

		if !inRange(field, value) {
			return &Error{
				Field:   field.Name,
				Message: fmt.Sprintf("field '%s' is out of range", field.Name),
			}
		}

		if field.Selection {
			if err := checkSelection(ctx, field.Name, value, source); err != nil {
				return err
			}
		}
	}

	return nil
}

// inRange reports whether a decoded number fits the Go type it will be stored
// in: a finite float64, or an int64 for integer-only fields.
func inRange(field FieldSpec, value any) bool {
	n, ok := value.(json.Number)
	if !ok {
		return true
	}

	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return false
	}

	if KindOf(n) == KindInt && !field.Accepts(KindFloat) {
		if _, err := n.Int64(); err != nil {
			return false
		}
	}
	return true
}

func checkSelection(ctx context.Context, name string, value any, source SelectionSource) error {
	str := fmt.Sprint(value)
	if str == "" {
		return nil
	}

	if source == nil {
		return &Error{Field: name, Message: fmt.Sprintf("invalid field in model: '%s'", name)}
	}

	allowed, err := source.SelectionValues(ctx, name)
	if err != nil {
		return &Error{Field: name, Message: fmt.Sprintf("invalid field in model: '%s'", name)}
	}

	if !slices.Contains(allowed, str) {
		return &Error{
			Field:   name,
			Message: fmt.Sprintf("invalid value '%s' for field '%s', expected one of: %s", str, name, strings.Join(allowed, ", ")),
		}
	}

	return nil
}
