package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"material-api/internal/domain"
	"material-api/internal/validation"
)

// MaterialFieldSpec is the field specification for material payloads
func MaterialFieldSpec() validation.Spec {
	return validation.NewSpec(
		validation.FieldSpec{Name: "name", Kinds: []validation.Kind{validation.KindString}},
		validation.FieldSpec{Name: "code", Kinds: []validation.Kind{validation.KindString, validation.KindInt}},
		validation.FieldSpec{Name: "type", Kinds: []validation.Kind{validation.KindString}, Selection: true},
		validation.FieldSpec{Name: "buy_price", Kinds: []validation.Kind{validation.KindInt, validation.KindFloat}},
		validation.FieldSpec{Name: "supplier_id", Kinds: []validation.Kind{validation.KindInt}},
	)
}

// asFloat converts a numeric payload value. Values that do not fit a finite
// float64 are rejected.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	case float64:
		return n, !math.IsInf(n, 0) && !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	}
	return "", false
}

// applyPayload copies the spec fields present in payload onto material.
// Payload kinds have already been validated; a null value for a required
// column is rejected the way the database would reject it.
func applyPayload(material *domain.Material, payload map[string]any) error {
	for _, field := range MaterialFieldSpec().Names() {
		value, ok := payload[field]
		if !ok {
			continue
		}
		if value == nil {
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("field '%s' is required", field)}
		}

		converted := true
		switch field {
		case "name":
			material.Name, converted = asString(value)
		case "code":
			material.Code, converted = asString(value)
		case "type":
			var str string
			str, converted = asString(value)
			material.Type = domain.MaterialType(str)
		case "buy_price":
			material.BuyPrice, converted = asFloat(value)
		case "supplier_id":
			material.SupplierID, converted = asInt64(value)
		}
		if !converted {
			return invalidf("field '%s' is out of range", field)
		}
	}
	return nil
}
