package odata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WireType identifies the protocol-level type of a scalar property.
type WireType int

const (
	String WireType = iota
	Integer
	Float
	Boolean
	Datetime
	Decimal
	UUID
	Enum
	Complex
	Location
)

func (wt WireType) String() string {
	switch wt {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Datetime:
		return "datetime"
	case Decimal:
		return "decimal"
	case UUID:
		return "uuid"
	case Enum:
		return "enum"
	case Complex:
		return "complex"
	case Location:
		return "location"
	default:
		return fmt.Sprintf("invalid wire type %d", int(wt))
	}
}

// wireTypeDef holds the per-type conversion rules. serialize maps a caller
// value into its JSON wire form, deserialize is the inverse, and escape
// produces the literal form used inside identity segments.
//
// Enum and Complex are absent from this table; they need their descriptors
// and are handled by the codec.
type wireTypeDef struct {
	serialize   func(v any) (any, error)
	deserialize func(raw any) (any, error)
	escape      func(wire any) (string, error)
}

var wireTypes = map[WireType]*wireTypeDef{
	String:   {serializeString, deserializeString, escapeQuoted},
	Location: {serializeString, deserializeString, escapeQuoted},
	Integer:  {serializeInteger, deserializeInteger, escapeInteger},
	Float:    {serializeFloat, deserializeFloat, escapeFloat},
	Boolean:  {serializeBoolean, deserializeBoolean, escapeBoolean},
	Datetime: {serializeDatetime, deserializeDatetime, escapeIdentityString},
	Decimal:  {serializeDecimal, deserializeDecimal, escapeDecimal},
	UUID:     {serializeUUID, deserializeUUID, escapeIdentityString},
}

func wireTypeDefOf(wt WireType) (*wireTypeDef, error) {
	def := wireTypes[wt]
	if def == nil {
		return nil, unsupportedValuef(wt, nil, "no serialization rule for wire type %v", wt)
	}
	return def, nil
}

func serializeString(v any) (any, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	default:
		return nil, unsupportedValuef(String, v, "expected string")
	}
}

func deserializeString(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", raw)
	}
	return s, nil
}

func serializeInteger(v any) (any, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint32:
		return int64(v), nil
	default:
		return nil, unsupportedValuef(Integer, v, "expected integer")
	}
}

func deserializeInteger(raw any) (any, error) {
	switch raw := raw.(type) {
	case int64:
		return raw, nil
	case float64:
		n := int64(raw)
		if float64(n) != raw {
			return nil, fmt.Errorf("%v is not an integer", raw)
		}
		return n, nil
	case json.Number:
		return raw.Int64()
	default:
		return nil, fmt.Errorf("expected integer, got %T", raw)
	}
}

func serializeFloat(v any) (any, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return nil, unsupportedValuef(Float, v, "expected float")
	}
}

func deserializeFloat(raw any) (any, error) {
	switch raw := raw.(type) {
	case float64:
		return raw, nil
	case json.Number:
		return raw.Float64()
	default:
		return nil, fmt.Errorf("expected float, got %T", raw)
	}
}

func serializeBoolean(v any) (any, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	default:
		return nil, unsupportedValuef(Boolean, v, "expected bool")
	}
}

func deserializeBoolean(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", raw)
	}
	return b, nil
}

// datetimeLayouts covers the forms endpoints actually return; the first is
// also the form we emit.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func serializeDatetime(v any) (any, error) {
	switch v := v.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	default:
		return nil, unsupportedValuef(Datetime, v, "expected time.Time")
	}
}

func deserializeDatetime(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected datetime string, got %T", raw)
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("cannot parse datetime %q", s)
}

func serializeDecimal(v any) (any, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return json.Number(v.String()), nil
	case int:
		return json.Number(decimal.NewFromInt(int64(v)).String()), nil
	case int64:
		return json.Number(decimal.NewFromInt(v).String()), nil
	default:
		return nil, unsupportedValuef(Decimal, v, "expected decimal.Decimal")
	}
}

func deserializeDecimal(raw any) (any, error) {
	switch raw := raw.(type) {
	case json.Number:
		return decimal.NewFromString(raw.String())
	case string:
		return decimal.NewFromString(raw)
	case float64:
		return decimal.NewFromFloat(raw), nil
	default:
		return nil, fmt.Errorf("expected decimal, got %T", raw)
	}
}

func serializeUUID(v any) (any, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v.String(), nil
	case string:
		u, err := uuid.Parse(v)
		if err != nil {
			return nil, unsupportedValuef(UUID, v, "%v", err)
		}
		return u.String(), nil
	default:
		return nil, unsupportedValuef(UUID, v, "expected uuid.UUID")
	}
}

func deserializeUUID(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected uuid string, got %T", raw)
	}
	return uuid.Parse(s)
}

// Escape functions operate on wire forms, the values held in an entity's
// value store.

func escapeQuoted(wire any) (string, error) {
	s, ok := wire.(string)
	if !ok {
		return "", unsupportedValuef(String, wire, "cannot escape %T", wire)
	}
	var buf []byte
	buf = append(buf, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			buf = append(buf, '\'', '\'')
		} else {
			buf = append(buf, s[i])
		}
	}
	buf = append(buf, '\'')
	return string(buf), nil
}

// escapeIdentityString is for types whose wire form is already a bare
// protocol literal (datetimes, UUIDs).
func escapeIdentityString(wire any) (string, error) {
	s, ok := wire.(string)
	if !ok {
		return "", unsupportedValuef(Datetime, wire, "cannot escape %T", wire)
	}
	return s, nil
}

func escapeInteger(wire any) (string, error) {
	n, ok := wire.(int64)
	if !ok {
		return "", unsupportedValuef(Integer, wire, "cannot escape %T", wire)
	}
	return strconv.FormatInt(n, 10), nil
}

func escapeFloat(wire any) (string, error) {
	f, ok := wire.(float64)
	if !ok {
		return "", unsupportedValuef(Float, wire, "cannot escape %T", wire)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func escapeBoolean(wire any) (string, error) {
	b, ok := wire.(bool)
	if !ok {
		return "", unsupportedValuef(Boolean, wire, "cannot escape %T", wire)
	}
	if b {
		return "true", nil
	}
	return "false", nil
}

func escapeDecimal(wire any) (string, error) {
	n, ok := wire.(json.Number)
	if !ok {
		return "", unsupportedValuef(Decimal, wire, "cannot escape %T", wire)
	}
	return n.String(), nil
}
