package foval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataType is the canonical internal type a field's value is coerced to
// before validation runs.
type DataType string

const (
	TypeString    DataType = "string"
	TypeInt       DataType = "int"
	TypeFloat     DataType = "float"
	TypeEmail     DataType = "email"
	TypeTelephone DataType = "telephone"
	TypeURL       DataType = "url"
	TypeBoolean   DataType = "boolean"
	TypeCheckbox  DataType = "checkbox"
	TypePassword  DataType = "password"
	TypeHash      DataType = "hash"
)

// dataTypeAliases maps external shorthand names onto canonical types.
// Canonical names normalize to themselves.
var dataTypeAliases = map[string]DataType{
	"str":    TypeString,
	"text":   TypeString,
	"num":    TypeFloat,
	"number": TypeFloat,
	"bool":   TypeBoolean,
	"tel":    TypeTelephone,
	"phone":  TypeTelephone,
}

var canonicalDataTypes = map[DataType]struct{}{
	TypeString:    {},
	TypeInt:       {},
	TypeFloat:     {},
	TypeEmail:     {},
	TypeTelephone: {},
	TypeURL:       {},
	TypeBoolean:   {},
	TypeCheckbox:  {},
	TypePassword:  {},
	TypeHash:      {},
}

// NormalizeDataType resolves an alias or canonical type name to its canonical
// DataType. It returns ErrUnknownDataType for anything it does not recognize;
// this is a configuration error raised at field-definition time.
func NormalizeDataType(name string) (DataType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if t, ok := dataTypeAliases[n]; ok {
		return t, nil
	}
	if _, ok := canonicalDataTypes[DataType(n)]; ok {
		return DataType(n), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataType, name)
}

// defaultValueFor supplies the starting value used when the raw input bag has
// no entry for a field.
func defaultValueFor(t DataType) any {
	switch t {
	case TypeInt, TypeFloat:
		return math.NaN()
	case TypeBoolean, TypeCheckbox:
		return nil
	case TypeHash:
		return map[string]bool{}
	default:
		return ""
	}
}

// coerceValue casts a raw input value to the canonical representation of the
// given data type. Numeric values that fail to parse become NaN rather than
// erroring; they fail the required/numeric validations later. Hash values are
// assembled by the field builder from multiple raw keys, so coercion only
// passes a ready-made map through.
func coerceValue(t DataType, raw any) any {
	switch t {
	case TypeInt:
		n := toFloat(raw)
		if math.IsNaN(n) {
			return n
		}
		return math.Trunc(n)
	case TypeFloat:
		return toFloat(raw)
	case TypeBoolean, TypeCheckbox:
		return parseBoolToken(raw)
	case TypeHash:
		if m, ok := raw.(map[string]bool); ok {
			return m
		}
		return map[string]bool{}
	default:
		return toString(raw)
	}
}

// toString renders a raw value as a string. Multi-value inputs keep their
// first entry, matching single-value HTML field semantics.
func toString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		s := strings.TrimSpace(toString(raw))
		if s == "" {
			return math.NaN()
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
}

// parseBoolToken performs the permissive tri-state boolean parse used for
// boolean and checkbox fields: recognized truthy/falsy tokens map to
// true/false, anything else yields nil (not yet answered).
func parseBoolToken(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case bool:
		return v
	case float64:
		if v == 1 {
			return true
		}
		if v == 0 {
			return false
		}
		return nil
	case int:
		return parseBoolToken(float64(v))
	}

	switch strings.ToLower(strings.TrimSpace(toString(raw))) {
	case "true", "1", "yes", "on", "y":
		return true
	case "false", "0", "no", "off", "n", "":
		return false
	default:
		return nil
	}
}

// isEmptyValue reports whether a field value counts as empty for the
// "empty and not required" validation skip. Hash maps never count as empty
// here; the hash validation itself decides what an acceptable selection is.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0 || math.IsNaN(val)
	default:
		return false
	}
}

// isPopulated is the type-aware emptiness check behind the required
// validation. Each canonical type has its own notion of "an answer".
func isPopulated(t DataType, v any) bool {
	switch t {
	case TypeInt, TypeFloat:
		n, ok := v.(float64)
		return ok && !math.IsNaN(n) && !math.IsInf(n, 0)
	case TypeBoolean, TypeCheckbox:
		b, ok := v.(bool)
		return ok && b
	case TypeHash:
		m, ok := v.(map[string]bool)
		if !ok {
			return false
		}
		for _, set := range m {
			if set {
				return true
			}
		}
		return false
	default:
		return toString(v) != ""
	}
}
