package odata

import (
	"fmt"
)

type propertyOpt int

const (
	// PrimaryKey marks a property as part of the entity's key.
	PrimaryKey = propertyOpt(iota + 1)
	// Computed marks a server-assigned property, never sent in payloads.
	Computed
	// NotNullable marks a property that must not hold null.
	NotNullable
	// CollectionOf marks a property or navigation holding multiple values.
	CollectionOf
)

type foreignKeyOpt string

// ForeignKey names the scalar property holding the related entity's key.
// Used as an option to EntityTypeBuilder.Navigation.
func ForeignKey(propertyName string) any {
	return foreignKeyOpt(propertyName)
}

type EntityTypeBuilder struct {
	reg  *Registry
	desc *SchemaDescriptor
}

// DefineEntityType registers an entity type with the registry. collection is
// the entity set's URL segment ("Products"); types without one cannot have a
// wire identity. Panics on duplicate or malformed definitions, which are
// programmer errors.
func DefineEntityType(reg *Registry, typeName, collection string, f func(b *EntityTypeBuilder)) *SchemaDescriptor {
	desc := &SchemaDescriptor{
		TypeName:   typeName,
		Collection: collection,
	}
	b := EntityTypeBuilder{reg: reg, desc: desc}
	f(&b)
	reg.addEntityType(desc)
	return desc
}

func (b *EntityTypeBuilder) Property(name string, wt WireType, opts ...any) {
	if wt == Enum || wt == Complex {
		panic(fmt.Sprintf("%s.%s: use EnumProperty or ComplexProperty", b.desc.TypeName, name))
	}
	b.addProperty(name, wt, "", opts)
}

func (b *EntityTypeBuilder) EnumProperty(name string, enumTypeName string, opts ...any) {
	if b.reg.EnumTypeNamed(enumTypeName) == nil {
		panic(fmt.Sprintf("%s.%s: enum type %s is not registered", b.desc.TypeName, name, enumTypeName))
	}
	b.addProperty(name, Enum, enumTypeName, opts)
}

func (b *EntityTypeBuilder) ComplexProperty(name string, complexTypeName string, opts ...any) {
	if b.reg.ComplexTypeNamed(complexTypeName) == nil {
		panic(fmt.Sprintf("%s.%s: complex type %s is not registered", b.desc.TypeName, name, complexTypeName))
	}
	b.addProperty(name, Complex, complexTypeName, opts)
}

func (b *EntityTypeBuilder) addProperty(name string, wt WireType, typeName string, opts []any) {
	for _, prop := range b.desc.Properties {
		if prop.Name == name {
			panic(fmt.Sprintf("%s already has a property named %q", b.desc.TypeName, name))
		}
	}
	prop := &PropertyDescriptor{
		Name:       name,
		Type:       wt,
		IsNullable: true,
		TypeName:   typeName,
	}
	for _, opt := range opts {
		switch opt {
		case PrimaryKey:
			prop.IsPrimaryKey = true
		case Computed:
			prop.IsComputed = true
		case NotNullable:
			prop.IsNullable = false
		case CollectionOf:
			prop.IsCollection = true
		default:
			panic(fmt.Errorf("%s.%s: invalid option %T %v", b.desc.TypeName, name, opt, opt))
		}
	}
	b.desc.Properties = append(b.desc.Properties, prop)
}

// Navigation declares a relationship to targetType, which may be registered
// later (mutually referencing types need this). Options: CollectionOf,
// ForeignKey(name).
func (b *EntityTypeBuilder) Navigation(name string, targetType string, opts ...any) {
	for _, nav := range b.desc.Navigations {
		if nav.Name == name {
			panic(fmt.Sprintf("%s already has a navigation named %q", b.desc.TypeName, name))
		}
	}
	nav := &NavigationDescriptor{
		Name:       name,
		TargetType: targetType,
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case propertyOpt:
			if opt == CollectionOf {
				nav.IsCollection = true
			} else {
				panic(fmt.Errorf("%s.%s: invalid navigation option %v", b.desc.TypeName, name, opt))
			}
		case foreignKeyOpt:
			nav.ForeignKey = string(opt)
		default:
			panic(fmt.Errorf("%s.%s: invalid option %T %v", b.desc.TypeName, name, opt, opt))
		}
	}
	b.desc.Navigations = append(b.desc.Navigations, nav)
}

type ComplexTypeBuilder struct {
	reg  *Registry
	desc *ComplexDescriptor
}

// DefineComplexType registers a structured value type. Nested complex
// properties must reference already-registered complex types, which keeps
// complex-type schemas acyclic by construction.
func DefineComplexType(reg *Registry, typeName string, f func(b *ComplexTypeBuilder)) *ComplexDescriptor {
	desc := &ComplexDescriptor{TypeName: typeName}
	b := ComplexTypeBuilder{reg: reg, desc: desc}
	f(&b)
	reg.addComplexType(desc)
	return desc
}

func (b *ComplexTypeBuilder) Property(name string, wt WireType, opts ...any) {
	if wt == Enum || wt == Complex {
		panic(fmt.Sprintf("%s.%s: use EnumProperty or ComplexProperty", b.desc.TypeName, name))
	}
	b.addProperty(name, wt, "", opts)
}

func (b *ComplexTypeBuilder) EnumProperty(name string, enumTypeName string, opts ...any) {
	if b.reg.EnumTypeNamed(enumTypeName) == nil {
		panic(fmt.Sprintf("%s.%s: enum type %s is not registered", b.desc.TypeName, name, enumTypeName))
	}
	b.addProperty(name, Enum, enumTypeName, opts)
}

func (b *ComplexTypeBuilder) ComplexProperty(name string, complexTypeName string, opts ...any) {
	if b.reg.ComplexTypeNamed(complexTypeName) == nil {
		panic(fmt.Sprintf("%s.%s: complex type %s is not registered", b.desc.TypeName, name, complexTypeName))
	}
	b.addProperty(name, Complex, complexTypeName, opts)
}

func (b *ComplexTypeBuilder) addProperty(name string, wt WireType, typeName string, opts []any) {
	for _, prop := range b.desc.Properties {
		if prop.Name == name {
			panic(fmt.Sprintf("%s already has a property named %q", b.desc.TypeName, name))
		}
	}
	prop := &PropertyDescriptor{
		Name:       name,
		Type:       wt,
		IsNullable: true,
		TypeName:   typeName,
	}
	for _, opt := range opts {
		switch opt {
		case NotNullable:
			prop.IsNullable = false
		case CollectionOf:
			prop.IsCollection = true
		default:
			panic(fmt.Errorf("%s.%s: invalid option %T %v", b.desc.TypeName, name, opt, opt))
		}
	}
	b.desc.Properties = append(b.desc.Properties, prop)
}

// DefineEnumType registers an enumeration type with its member names in
// declaration order.
func DefineEnumType(reg *Registry, typeName string, members ...string) *EnumDescriptor {
	if len(members) == 0 {
		panic(fmt.Sprintf("enum type %s must have at least one member", typeName))
	}
	desc := &EnumDescriptor{
		TypeName: typeName,
		Members:  members,
	}
	reg.addEnumType(desc)
	return desc
}
