package odata

import (
	"strings"
)

// Identity computes the entity's wire identity, its resource key segment:
// Products(5) for a single-key type, OrderDetails(OrderID=1,ProductID=5)
// for a composite key (properties in schema declaration order). The second
// return is false when the type has no collection segment or any primary
// key property holds no value; such an entity is considered new.
//
// The result is a pure function of the schema and the stored key values,
// reproducible bit-for-bit. It is used both for update targeting and for
// bind-reference construction.
func (e *Entity) Identity() (string, bool) {
	if e.schema.Collection == "" {
		return "", false
	}
	pks := e.schema.primaryKeys
	if len(pks) == 0 {
		return "", false
	}

	escaped := make([]string, 0, len(pks))
	for _, prop := range pks {
		wire, ok := e.values[prop.Name]
		if !ok || wire == nil {
			return "", false
		}
		def, err := wireTypeDefOf(prop.Type)
		if err != nil {
			return "", false
		}
		lit, err := def.escape(wire)
		if err != nil {
			return "", false
		}
		escaped = append(escaped, lit)
	}

	var buf strings.Builder
	buf.WriteString(e.schema.Collection)
	buf.WriteByte('(')
	if len(pks) == 1 {
		buf.WriteString(escaped[0])
	} else {
		for i, prop := range pks {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(prop.Name)
			buf.WriteByte('=')
			buf.WriteString(escaped[i])
		}
	}
	buf.WriteByte(')')
	return buf.String(), true
}
