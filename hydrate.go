package odata

// Hydrate materializes an entity from a query-result JSON object. The
// entity comes back persisted and clean: nothing is dirty until the caller
// mutates it.
//
// Scalar values are validated through the codec and stored in canonical
// wire form; nested navigation objects and arrays hydrate related entities
// into the navigation cache. Annotation keys ("@odata.context" and the
// like) and keys unknown to the schema are ignored, since endpoints
// routinely decorate responses.
func Hydrate(reg *Registry, typeName string, data map[string]any) (*Entity, error) {
	desc, err := reg.DescribeType(typeName)
	if err != nil {
		return nil, err
	}
	e := newEntity(reg, desc)
	e.persisted = true

	for key, raw := range data {
		if isAnnotationKey(key) {
			continue
		}
		if prop := desc.PropertyNamed(key); prop != nil {
			wire, err := rehydrateWire(reg, desc.TypeName, prop, raw)
			if err != nil {
				return nil, err
			}
			e.setRawValue(key, wire)
			continue
		}
		nav := desc.NavigationNamed(key)
		if nav == nil {
			continue
		}
		if err := hydrateNavigation(reg, e, nav, raw); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// rehydrateWire round-trips a raw wire value through the codec, which both
// validates it (unknown enum members fail fast) and normalizes it (JSON
// numbers become the canonical stored form).
func rehydrateWire(reg *Registry, typeName string, prop *PropertyDescriptor, raw any) (any, error) {
	v, err := reg.deserializeProperty(typeName, prop, raw)
	if err != nil {
		return nil, err
	}
	return reg.serializeProperty(prop, v)
}

func hydrateNavigation(reg *Registry, e *Entity, nav *NavigationDescriptor, raw any) error {
	if raw == nil {
		e.navCache[nav.Name] = &navValue{}
		return nil
	}
	if nav.IsCollection {
		items, ok := raw.([]any)
		if !ok {
			return deserializationErrf(e.schema.TypeName, nav.Name, nil, "expected array, got %T", raw)
		}
		related := make([]*Entity, 0, len(items))
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return deserializationErrf(e.schema.TypeName, nav.Name, nil, "expected object element, got %T", item)
			}
			rel, err := Hydrate(reg, nav.TargetType, obj)
			if err != nil {
				return err
			}
			related = append(related, rel)
		}
		e.navCache[nav.Name] = &navValue{collection: related}
		return nil
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return deserializationErrf(e.schema.TypeName, nav.Name, nil, "expected object, got %T", raw)
	}
	rel, err := Hydrate(reg, nav.TargetType, obj)
	if err != nil {
		return err
	}
	e.navCache[nav.Name] = &navValue{single: rel}
	return nil
}
