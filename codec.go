package odata

import (
	"reflect"
	"strings"
)

// The codec converts between caller values and wire forms, recursing
// through complex types and enumerations. Scalars go through the wire-type
// table; Enum and Complex need their registered descriptors and are
// resolved against the registry.

// SerializeComplex serializes a complex value (a map keyed by the complex
// type's property names) into its ordered wire form. Nested complex values
// recurse. Unknown keys fail with SchemaMismatchError.
func (reg *Registry) SerializeComplex(typeName string, value map[string]any) (*Payload, error) {
	desc := reg.ComplexTypeNamed(typeName)
	if desc == nil {
		return nil, schemaMismatchf(typeName, "", "no complex type registered under this name")
	}
	return reg.serializeComplexValue(desc, value)
}

func (reg *Registry) serializeComplexValue(desc *ComplexDescriptor, value map[string]any) (*Payload, error) {
	for name := range value {
		if desc.PropertyNamed(name) == nil {
			return nil, schemaMismatchf(desc.TypeName, name, "no such property")
		}
	}
	pl := NewPayload()
	for _, prop := range desc.Properties {
		wire, err := reg.serializeProperty(prop, value[prop.Name])
		if err != nil {
			return nil, err
		}
		pl.Set(prop.Name, wire)
	}
	return pl, nil
}

// DeserializeComplex is the inverse of SerializeComplex. Properties missing
// from the wire object come back nil where the descriptor allows null,
// otherwise the whole value fails with DeserializationError. Keys carrying
// protocol annotations ("...@odata...") are ignored.
func (reg *Registry) DeserializeComplex(typeName string, raw any) (map[string]any, error) {
	desc := reg.ComplexTypeNamed(typeName)
	if desc == nil {
		return nil, schemaMismatchf(typeName, "", "no complex type registered under this name")
	}
	return reg.deserializeComplexValue(desc, raw)
}

func (reg *Registry) deserializeComplexValue(desc *ComplexDescriptor, raw any) (map[string]any, error) {
	obj, ok := rawObject(raw)
	if !ok {
		return nil, deserializationErrf(desc.TypeName, "", nil, "expected object, got %T", raw)
	}
	value := make(map[string]any, len(desc.Properties))
	for _, prop := range desc.Properties {
		wire, present := obj[prop.Name]
		if !present || wire == nil {
			if !prop.IsNullable {
				return nil, deserializationErrf(desc.TypeName, prop.Name, nil, "missing required field")
			}
			value[prop.Name] = nil
			continue
		}
		v, err := reg.deserializeProperty(desc.TypeName, prop, wire)
		if err != nil {
			return nil, err
		}
		value[prop.Name] = v
	}
	return value, nil
}

func rawObject(raw any) (map[string]any, bool) {
	switch raw := raw.(type) {
	case map[string]any:
		return raw, true
	case *Payload:
		obj := make(map[string]any, len(raw.keys))
		for _, k := range raw.keys {
			obj[k] = raw.values[k]
		}
		return obj, true
	default:
		return nil, false
	}
}

// serializeProperty converts a caller value into its wire form according to
// the property descriptor. nil passes through as null.
func (reg *Registry) serializeProperty(prop *PropertyDescriptor, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if prop.IsCollection {
		items, err := sliceElems(prop, v)
		if err != nil {
			return nil, err
		}
		wire := make([]any, 0, len(items))
		for _, item := range items {
			w, err := reg.serializeScalar(prop, item)
			if err != nil {
				return nil, err
			}
			wire = append(wire, w)
		}
		return wire, nil
	}
	return reg.serializeScalar(prop, v)
}

func (reg *Registry) serializeScalar(prop *PropertyDescriptor, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch prop.Type {
	case Enum:
		desc := reg.EnumTypeNamed(prop.TypeName)
		if desc == nil {
			return nil, schemaMismatchf(prop.TypeName, "", "no enum type registered under this name")
		}
		name, ok := v.(string)
		if !ok {
			return nil, unsupportedValuef(Enum, v, "expected %s member name", desc.TypeName)
		}
		if !desc.HasMember(name) {
			return nil, unsupportedValuef(Enum, v, "%q is not a member of %s", name, desc.TypeName)
		}
		return name, nil
	case Complex:
		desc := reg.ComplexTypeNamed(prop.TypeName)
		if desc == nil {
			return nil, schemaMismatchf(prop.TypeName, "", "no complex type registered under this name")
		}
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, unsupportedValuef(Complex, v, "expected map[string]any for %s", desc.TypeName)
		}
		return reg.serializeComplexValue(desc, obj)
	default:
		def, err := wireTypeDefOf(prop.Type)
		if err != nil {
			return nil, err
		}
		return def.serialize(v)
	}
}

// deserializeProperty converts a wire form back into a caller value.
// typeName is the owning entity or complex type, used for error reporting.
func (reg *Registry) deserializeProperty(typeName string, prop *PropertyDescriptor, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if prop.IsCollection {
		items, ok := raw.([]any)
		if !ok {
			return nil, deserializationErrf(typeName, prop.Name, nil, "expected array, got %T", raw)
		}
		values := make([]any, 0, len(items))
		for _, item := range items {
			v, err := reg.deserializeScalar(typeName, prop, item)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	return reg.deserializeScalar(typeName, prop, raw)
}

func (reg *Registry) deserializeScalar(typeName string, prop *PropertyDescriptor, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch prop.Type {
	case Enum:
		desc := reg.EnumTypeNamed(prop.TypeName)
		if desc == nil {
			return nil, schemaMismatchf(prop.TypeName, "", "no enum type registered under this name")
		}
		name, ok := raw.(string)
		if !ok {
			return nil, deserializationErrf(typeName, prop.Name, nil, "expected %s member name, got %T", desc.TypeName, raw)
		}
		if !desc.HasMember(name) {
			return nil, deserializationErrf(typeName, prop.Name, nil, "%q is not a member of %s", name, desc.TypeName)
		}
		return name, nil
	case Complex:
		desc := reg.ComplexTypeNamed(prop.TypeName)
		if desc == nil {
			return nil, schemaMismatchf(prop.TypeName, "", "no complex type registered under this name")
		}
		return reg.deserializeComplexValue(desc, raw)
	default:
		def, err := wireTypeDefOf(prop.Type)
		if err != nil {
			return nil, err
		}
		v, err := def.deserialize(raw)
		if err != nil {
			return nil, deserializationErrf(typeName, prop.Name, err, "")
		}
		return v, nil
	}
}

func sliceElems(prop *PropertyDescriptor, v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, unsupportedValuef(prop.Type, v, "expected a slice for collection property %s", prop.Name)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

// isAnnotationKey reports whether a wire object key carries a protocol
// annotation rather than a property value.
func isAnnotationKey(key string) bool {
	return strings.Contains(key, "@")
}
