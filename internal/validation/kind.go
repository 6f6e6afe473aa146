package validation

import (
	"encoding/json"
	"strings"
)

// Kind is the primitive JSON kind of a submitted value
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindObject
	KindArray
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNull:    "null",
	KindString:  "string",
	KindInt:     "integer",
	KindFloat:   "float",
	KindBool:    "boolean",
	KindObject:  "object",
	KindArray:   "array",
	KindUnknown: "unknown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// KindOf classifies a decoded payload value.
// Numbers decoded with json.Decoder.UseNumber are integers unless they carry
// a fraction or an exponent, so 100 and 100.0 are different kinds.
func KindOf(v any) Kind {
	switch val := v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBool
	case json.Number:
		if strings.ContainsAny(val.String(), ".eE") {
			return KindFloat
		}
		return KindInt
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindUnknown
	}
}
