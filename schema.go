package odata

import (
	"strings"
)

// PropertyDescriptor describes one scalar property of an entity or complex
// type. Descriptors are immutable after registration and shared read-only
// across all instances of the type.
type PropertyDescriptor struct {
	Name         string   `msgpack:"n"`
	Type         WireType `msgpack:"t"`
	IsPrimaryKey bool     `msgpack:"pk,omitempty"`
	IsComputed   bool     `msgpack:"ro,omitempty"`
	IsNullable   bool     `msgpack:"null,omitempty"`
	IsCollection bool     `msgpack:"coll,omitempty"`

	// TypeName names the EnumDescriptor or ComplexDescriptor when Type is
	// Enum or Complex, empty otherwise.
	TypeName string `msgpack:"tn,omitempty"`
}

// NavigationDescriptor describes a relationship to one or many entities of
// another (or the same) type. It describes the relationship, not a value.
type NavigationDescriptor struct {
	Name         string `msgpack:"n"`
	TargetType   string `msgpack:"tt"`
	IsCollection bool   `msgpack:"coll,omitempty"`

	// ForeignKey optionally names the scalar property holding the related
	// entity's key, used for bind-reference substitution on insert.
	ForeignKey string `msgpack:"fk,omitempty"`
}

// SchemaDescriptor is the immutable per-entity-type schema: ordered scalar
// properties followed by ordered navigation properties. One instance exists
// per registered type.
type SchemaDescriptor struct {
	TypeName    string                  `msgpack:"n"`
	Collection  string                  `msgpack:"c,omitempty"`
	Properties  []*PropertyDescriptor   `msgpack:"p"`
	Navigations []*NavigationDescriptor `msgpack:"nav,omitempty"`

	propsByName map[string]*PropertyDescriptor
	navsByName  map[string]*NavigationDescriptor
	primaryKeys []*PropertyDescriptor
}

func (desc *SchemaDescriptor) init() {
	desc.propsByName = make(map[string]*PropertyDescriptor, len(desc.Properties))
	desc.navsByName = make(map[string]*NavigationDescriptor, len(desc.Navigations))
	desc.primaryKeys = nil
	for _, prop := range desc.Properties {
		desc.propsByName[prop.Name] = prop
		if prop.IsPrimaryKey {
			desc.primaryKeys = append(desc.primaryKeys, prop)
		}
	}
	for _, nav := range desc.Navigations {
		desc.navsByName[nav.Name] = nav
	}
}

func (desc *SchemaDescriptor) PropertyNamed(name string) *PropertyDescriptor {
	return desc.propsByName[name]
}

func (desc *SchemaDescriptor) NavigationNamed(name string) *NavigationDescriptor {
	return desc.navsByName[name]
}

// PrimaryKeys returns the primary key properties in schema declaration order.
func (desc *SchemaDescriptor) PrimaryKeys() []*PropertyDescriptor {
	return append([]*PropertyDescriptor(nil), desc.primaryKeys...)
}

// ComplexDescriptor describes a structured value type embedded within an
// entity or another complex type. Complex values have no identity of their
// own. Complex-type schemas must form a DAG; a self-referential complex
// type is a caller error.
type ComplexDescriptor struct {
	TypeName   string                `msgpack:"n"`
	Properties []*PropertyDescriptor `msgpack:"p"`

	propsByName map[string]*PropertyDescriptor
}

func (desc *ComplexDescriptor) init() {
	desc.propsByName = make(map[string]*PropertyDescriptor, len(desc.Properties))
	for _, prop := range desc.Properties {
		desc.propsByName[prop.Name] = prop
	}
}

func (desc *ComplexDescriptor) PropertyNamed(name string) *PropertyDescriptor {
	return desc.propsByName[name]
}

// EnumDescriptor describes an enumeration type. Values travel on the wire
// as declared member names, never as their underlying numbers.
type EnumDescriptor struct {
	TypeName string   `msgpack:"n"`
	Members  []string `msgpack:"m"`

	memberSet map[string]struct{}
}

func (desc *EnumDescriptor) init() {
	desc.memberSet = make(map[string]struct{}, len(desc.Members))
	for _, m := range desc.Members {
		desc.memberSet[m] = struct{}{}
	}
}

func (desc *EnumDescriptor) HasMember(name string) bool {
	_, ok := desc.memberSet[name]
	return ok
}

// Registry holds every type descriptor known to a single service. It is
// built once (by the metadata parser, by hand, or from a schema cache) and
// treated as immutable afterwards. There is no process-wide registry;
// every component that needs type lookup receives one explicitly.
type Registry struct {
	entities            []*SchemaDescriptor
	entitiesByLowerName map[string]*SchemaDescriptor
	complexes           []*ComplexDescriptor
	complexesByName     map[string]*ComplexDescriptor
	enums               []*EnumDescriptor
	enumsByName         map[string]*EnumDescriptor
}

func NewRegistry() *Registry {
	return &Registry{
		entitiesByLowerName: make(map[string]*SchemaDescriptor),
		complexesByName:     make(map[string]*ComplexDescriptor),
		enumsByName:         make(map[string]*EnumDescriptor),
	}
}

// EntityTypes returns the registered entity descriptors in registration order.
func (reg *Registry) EntityTypes() []*SchemaDescriptor {
	return append([]*SchemaDescriptor(nil), reg.entities...)
}

// DescribeType returns the schema descriptor for the named entity type,
// or a SchemaMismatchError if no such type is registered. Lookup ignores
// case.
func (reg *Registry) DescribeType(typeName string) (*SchemaDescriptor, error) {
	desc := reg.entitiesByLowerName[strings.ToLower(typeName)]
	if desc == nil {
		return nil, schemaMismatchf(typeName, "", "no entity type registered under this name")
	}
	return desc, nil
}

func (reg *Registry) ComplexTypeNamed(typeName string) *ComplexDescriptor {
	return reg.complexesByName[typeName]
}

func (reg *Registry) EnumTypeNamed(typeName string) *EnumDescriptor {
	return reg.enumsByName[typeName]
}

func (reg *Registry) addEntityType(desc *SchemaDescriptor) {
	lower := strings.ToLower(desc.TypeName)
	if reg.entitiesByLowerName[lower] != nil {
		panic("odata: duplicate entity type " + desc.TypeName)
	}
	desc.init()
	reg.entities = append(reg.entities, desc)
	reg.entitiesByLowerName[lower] = desc
}

func (reg *Registry) addComplexType(desc *ComplexDescriptor) {
	if reg.complexesByName[desc.TypeName] != nil {
		panic("odata: duplicate complex type " + desc.TypeName)
	}
	desc.init()
	reg.complexes = append(reg.complexes, desc)
	reg.complexesByName[desc.TypeName] = desc
}

func (reg *Registry) addEnumType(desc *EnumDescriptor) {
	if reg.enumsByName[desc.TypeName] != nil {
		panic("odata: duplicate enum type " + desc.TypeName)
	}
	desc.init()
	reg.enums = append(reg.enums, desc)
	reg.enumsByName[desc.TypeName] = desc
}
