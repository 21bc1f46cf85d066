package odata

import (
	"reflect"
)

// Entity is one instance of a registered entity type: a mutable value store
// plus a record of which properties were touched since the entity was
// loaded or last saved.
//
// An Entity is exclusively owned by its creator and must not be mutated
// concurrently with a change-set build. That is a documented precondition,
// not enforced here.
type Entity struct {
	registry *Registry
	schema   *SchemaDescriptor

	// values holds wire forms keyed by property name; assignment serializes
	// through the wire-type table, so anything in here is JSON-compatible.
	values    map[string]any
	dirty     map[string]struct{}
	navCache  map[string]*navValue
	persisted bool
}

// navValue is a resolved navigation target. Exactly one of the two fields
// is meaningful, chosen by the descriptor's IsCollection.
type navValue struct {
	single     *Entity
	collection []*Entity
}

// New creates a fresh, unsaved entity of the named type. All properties
// start unset and clean.
func New(reg *Registry, typeName string) (*Entity, error) {
	desc, err := reg.DescribeType(typeName)
	if err != nil {
		return nil, err
	}
	return newEntity(reg, desc), nil
}

func newEntity(reg *Registry, desc *SchemaDescriptor) *Entity {
	return &Entity{
		registry: reg,
		schema:   desc,
		values:   make(map[string]any),
		dirty:    make(map[string]struct{}),
		navCache: make(map[string]*navValue),
	}
}

func (e *Entity) Schema() *SchemaDescriptor {
	return e.schema
}

// Persisted reports whether the entity is known to exist server-side. It
// becomes true after a successful insert or when the entity is hydrated
// from a query result, and never transitions back.
func (e *Entity) Persisted() bool {
	return e.persisted
}

// MarkPersisted records a confirmed server-side existence, typically after
// the transport completes an insert.
func (e *Entity) MarkPersisted() {
	e.persisted = true
}

// Set assigns a scalar property. The value is serialized to its wire form
// immediately; incompatible values fail with UnsupportedValueError and
// unknown names with SchemaMismatchError. The property is marked dirty only
// if the new wire form differs from the stored one; once dirty it stays
// dirty until Reset, even if later assigned its original value back.
func (e *Entity) Set(name string, value any) error {
	prop := e.schema.PropertyNamed(name)
	if prop == nil {
		return schemaMismatchf(e.schema.TypeName, name, "no such property")
	}
	wire, err := e.registry.serializeProperty(prop, value)
	if err != nil {
		return err
	}
	old, existed := e.values[name]
	if existed && reflect.DeepEqual(old, wire) {
		return nil
	}
	e.values[name] = wire
	e.dirty[name] = struct{}{}
	return nil
}

// Get returns the current value of a scalar property, deserialized from its
// wire form. Unset properties return nil.
func (e *Entity) Get(name string) (any, error) {
	prop := e.schema.PropertyNamed(name)
	if prop == nil {
		return nil, schemaMismatchf(e.schema.TypeName, name, "no such property")
	}
	wire, ok := e.values[name]
	if !ok || wire == nil {
		return nil, nil
	}
	return e.registry.deserializeProperty(e.schema.TypeName, prop, wire)
}

// rawValue returns the stored wire form without deserializing.
func (e *Entity) rawValue(name string) (any, bool) {
	v, ok := e.values[name]
	return v, ok
}

// setRawValue stores an already-serialized wire form without touching the
// dirty set. Used by the hydrator.
func (e *Entity) setRawValue(name string, wire any) {
	e.values[name] = wire
}

// SetRelated assigns a single-valued navigation property and marks it
// dirty. Passing nil clears the cached target.
func (e *Entity) SetRelated(name string, related *Entity) error {
	nav := e.schema.NavigationNamed(name)
	if nav == nil {
		return schemaMismatchf(e.schema.TypeName, name, "no such navigation property")
	}
	if nav.IsCollection {
		return schemaMismatchf(e.schema.TypeName, name, "navigation is a collection, use SetRelatedCollection")
	}
	e.navCache[name] = &navValue{single: related}
	e.dirty[name] = struct{}{}
	return nil
}

// SetRelatedCollection assigns a collection navigation property and marks
// it dirty.
func (e *Entity) SetRelatedCollection(name string, related []*Entity) error {
	nav := e.schema.NavigationNamed(name)
	if nav == nil {
		return schemaMismatchf(e.schema.TypeName, name, "no such navigation property")
	}
	if !nav.IsCollection {
		return schemaMismatchf(e.schema.TypeName, name, "navigation is single-valued, use SetRelated")
	}
	e.navCache[name] = &navValue{collection: related}
	e.dirty[name] = struct{}{}
	return nil
}

// Related returns the cached target of a single-valued navigation property,
// or nil when none has been assigned or hydrated. Resolving an uncached
// navigation against the server belongs to the transport layer.
func (e *Entity) Related(name string) (*Entity, error) {
	nav := e.schema.NavigationNamed(name)
	if nav == nil {
		return nil, schemaMismatchf(e.schema.TypeName, name, "no such navigation property")
	}
	if nav.IsCollection {
		return nil, schemaMismatchf(e.schema.TypeName, name, "navigation is a collection, use RelatedCollection")
	}
	nv := e.navCache[name]
	if nv == nil {
		return nil, nil
	}
	return nv.single, nil
}

// RelatedCollection returns the cached targets of a collection navigation
// property, or nil when none have been assigned or hydrated.
func (e *Entity) RelatedCollection(name string) ([]*Entity, error) {
	nav := e.schema.NavigationNamed(name)
	if nav == nil {
		return nil, schemaMismatchf(e.schema.TypeName, name, "no such navigation property")
	}
	if !nav.IsCollection {
		return nil, schemaMismatchf(e.schema.TypeName, name, "navigation is single-valued, use Related")
	}
	nv := e.navCache[name]
	if nv == nil {
		return nil, nil
	}
	return nv.collection, nil
}

func (e *Entity) IsDirty(name string) bool {
	_, ok := e.dirty[name]
	return ok
}

// DirtyNames returns the dirty property and navigation names in schema
// declaration order.
func (e *Entity) DirtyNames() []string {
	var names []string
	for _, prop := range e.schema.Properties {
		if e.IsDirty(prop.Name) {
			names = append(names, prop.Name)
		}
	}
	for _, nav := range e.schema.Navigations {
		if e.IsDirty(nav.Name) {
			names = append(names, nav.Name)
		}
	}
	return names
}

// Reset clears the dirty set and the navigation cache, typically after a
// successful save. Stored property values are kept.
func (e *Entity) Reset() {
	e.dirty = make(map[string]struct{})
	e.navCache = make(map[string]*navValue)
}
