package odata

import (
	"fmt"
	"strings"
)

// SchemaMismatchError reports a property or navigation name that does not
// exist on the schema descriptor it was used against.
type SchemaMismatchError struct {
	TypeName string
	Member   string
	Msg      string
}

func schemaMismatchf(typeName, member string, format string, args ...any) error {
	return &SchemaMismatchError{typeName, member, fmt.Sprintf(format, args...)}
}

func (e *SchemaMismatchError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.TypeName)
	if e.Member != "" {
		buf.WriteByte('.')
		buf.WriteString(e.Member)
	}
	buf.WriteString(": ")
	buf.WriteString(e.Msg)
	return buf.String()
}

// DeserializationError reports wire data that cannot be turned into a value:
// an enum member absent from its declared members, a malformed scalar, or a
// complex value missing a required field. The caller never receives a
// partially built value.
type DeserializationError struct {
	TypeName string
	Property string
	Err      error
	Msg      string
}

func deserializationErrf(typeName, property string, err error, format string, args ...any) error {
	return &DeserializationError{typeName, property, err, fmt.Sprintf(format, args...)}
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func (e *DeserializationError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.TypeName)
	if e.Property != "" {
		buf.WriteByte('.')
		buf.WriteString(e.Property)
	}
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
	}
	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}

// CyclicGraphError reports a deep-insert recursion that revisited an entity
// already on the active expansion path. Deep insert does not support cyclic
// payloads.
type CyclicGraphError struct {
	TypeName string
	Path     []string
}

func cyclicGraphErrf(typeName string, path []string) error {
	return &CyclicGraphError{typeName, path}
}

func (e *CyclicGraphError) Error() string {
	return fmt.Sprintf("%s: cyclic entity graph in deep insert (path %s)", e.TypeName, strings.Join(e.Path, " > "))
}

// UnsupportedValueError reports a runtime value with no matching wire-type
// serialization or escape rule.
type UnsupportedValueError struct {
	WireType WireType
	Value    any
	Msg      string
}

func unsupportedValuef(wt WireType, value any, format string, args ...any) error {
	return &UnsupportedValueError{wt, value, fmt.Sprintf(format, args...)}
}

// unsupportedEntityValuef is for values that are wrong independently of any
// wire type, like an identity-less related entity in an update payload.
func unsupportedEntityValuef(value any, format string, args ...any) error {
	return &UnsupportedValueError{WireType(-1), value, fmt.Sprintf(format, args...)}
}

func (e *UnsupportedValueError) Error() string {
	if e.WireType < 0 {
		return e.Msg
	}
	if e.Value == nil {
		return fmt.Sprintf("%v: %s", e.WireType, e.Msg)
	}
	return fmt.Sprintf("%v: %s: %T %v", e.WireType, e.Msg, e.Value, e.Value)
}
