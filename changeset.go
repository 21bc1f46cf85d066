package odata

// The change-set builder turns an entity's live state into exactly the JSON
// payload the wire protocol expects for an insert or a partial update. It
// is a pure computation over the entity graph: no I/O, no mutation of the
// entities it reads.

type omitMode int

const (
	omitDefault omitMode = iota
	omitNothing
	omitAllNulls
	omitNamed
)

// OmitPolicy controls which null-valued entries are dropped from an
// outgoing payload. The zero value defers to ServerFlags.SkipNullProperties.
type OmitPolicy struct {
	mode  omitMode
	names map[string]struct{}
}

var (
	// OmitDefault defers to the server flags: drop every null when
	// SkipNullProperties is set, keep everything otherwise.
	OmitDefault = OmitPolicy{}

	// OmitNothing keeps every entry, nulls included.
	OmitNothing = OmitPolicy{mode: omitNothing}

	// OmitAllNulls drops every null-valued entry regardless of name.
	OmitAllNulls = OmitPolicy{mode: omitAllNulls}
)

// OmitNullsNamed drops only the named entries, and only when their value is
// null; everything else is kept even if null.
func OmitNullsNamed(names ...string) OmitPolicy {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return OmitPolicy{mode: omitNamed, names: set}
}

func (p OmitPolicy) resolve(flags ServerFlags) OmitPolicy {
	if p.mode != omitDefault {
		return p
	}
	if flags.SkipNullProperties {
		return OmitAllNulls
	}
	return OmitNothing
}

func (p OmitPolicy) drops(key string, value any) bool {
	if value != nil {
		return false
	}
	switch p.mode {
	case omitAllNulls:
		return true
	case omitNamed:
		_, ok := p.names[key]
		return ok
	default:
		return false
	}
}

// applyTo filters the flattened top-level entries of a payload as the final
// pass of a build. Nested deep-insert payloads were already filtered when
// they were built.
func (p OmitPolicy) applyTo(pl *Payload) {
	for _, key := range pl.Keys() {
		if v, _ := pl.Get(key); p.drops(key, v) {
			pl.Delete(key)
		}
	}
}

// Builder builds change-set payloads for one service, described by its
// registry and server flags.
type Builder struct {
	registry *Registry
	flags    ServerFlags
}

func NewBuilder(reg *Registry, flags ServerFlags) *Builder {
	return &Builder{registry: reg, flags: flags}
}

const typeAnnotation = "@odata.type"

// BuildInsertPayload produces the POST body for an unsaved entity: every
// non-computed property in schema order (minus unset primary keys), then
// every navigation with a resolved target, as @odata.bind references for
// related entities that already have an identity and nested insert payloads
// (deep insert) for those that do not.
//
// Recursion runs over the live entity graph, which may be cyclic; the
// builder tracks entities on the active expansion path and fails with
// CyclicGraphError instead of looping.
func (b *Builder) BuildInsertPayload(e *Entity, omit OmitPolicy) (*Payload, error) {
	return b.buildInsert(e, omit.resolve(b.flags), make(map[*Entity]struct{}), nil)
}

func (b *Builder) buildInsert(e *Entity, omit OmitPolicy, expanding map[*Entity]struct{}, path []string) (*Payload, error) {
	if _, ok := expanding[e]; ok {
		return nil, cyclicGraphErrf(e.schema.TypeName, append(path, e.schema.TypeName))
	}
	expanding[e] = struct{}{}
	defer delete(expanding, e)
	path = append(path, e.schema.TypeName)

	pl := NewPayload()
	if b.flags.ProvideTypeAnnotation {
		pl.Set(typeAnnotation, e.schema.TypeName)
	}

	for _, prop := range e.schema.Properties {
		if prop.IsComputed {
			continue
		}
		wire, _ := e.rawValue(prop.Name)
		pl.Set(prop.Name, wire)
	}

	// Primary keys go in only when they hold a value; otherwise the server
	// assigns them.
	for _, prop := range e.schema.primaryKeys {
		if v, _ := pl.Get(prop.Name); v == nil {
			pl.Delete(prop.Name)
		}
	}

	for _, nav := range e.schema.Navigations {
		nv := e.navCache[nav.Name]
		hasValue := nv != nil && (nv.single != nil || nv.collection != nil)

		// The plain foreign key is superseded by a bind reference, but only
		// when a related value is actually set; an unset navigation leaves
		// the caller's foreign-key value alone.
		if nav.ForeignKey != "" && hasValue {
			pl.Delete(nav.ForeignKey)
		}
		if !hasValue {
			continue
		}

		if nav.IsCollection {
			if err := b.insertCollectionNav(pl, nav, nv.collection, omit, expanding, path); err != nil {
				return nil, err
			}
		} else {
			if err := b.insertSingleNav(pl, nav, nv.single, omit, expanding, path); err != nil {
				return nil, err
			}
		}
	}

	omit.applyTo(pl)
	return pl, nil
}

func (b *Builder) insertCollectionNav(pl *Payload, nav *NavigationDescriptor, related []*Entity, omit OmitPolicy, expanding map[*Entity]struct{}, path []string) error {
	// Binds come first, then deep inserts for members without an identity.
	var binds []string
	var fresh []*Entity
	for _, rel := range related {
		if id, ok := rel.Identity(); ok {
			binds = append(binds, b.bindRef(id))
		} else {
			fresh = append(fresh, rel)
		}
	}
	if len(binds) > 0 {
		pl.Set(nav.Name+"@odata.bind", binds)
	}
	if len(fresh) > 0 {
		nested := make([]*Payload, 0, len(fresh))
		for _, rel := range fresh {
			sub, err := b.buildInsert(rel, omit, expanding, path)
			if err != nil {
				return err
			}
			nested = append(nested, sub)
		}
		pl.Set(nav.Name, nested)
	}
	return nil
}

func (b *Builder) insertSingleNav(pl *Payload, nav *NavigationDescriptor, rel *Entity, omit OmitPolicy, expanding map[*Entity]struct{}, path []string) error {
	if id, ok := rel.Identity(); ok {
		pl.Set(nav.Name+"@odata.bind", b.bindRef(id))

		// Some servers mishandle bind syntax, so the plain foreign key is
		// re-emitted next to the bind when the related entity declares it.
		// Best effort: a foreign key we cannot read is skipped.
		if nav.ForeignKey != "" && rel.schema.PropertyNamed(nav.ForeignKey) != nil {
			if fv, ok := rel.rawValue(nav.ForeignKey); ok {
				pl.Set(nav.ForeignKey, fv)
			}
		}
		return nil
	}

	sub, err := b.buildInsert(rel, omit, expanding, path)
	if err != nil {
		return err
	}
	pl.Set(nav.Name, sub)
	return nil
}

// BuildUpdatePayload produces the PATCH body for a persisted entity:
// strictly the properties marked dirty since load or last save, in schema
// order, plus bind references for dirty navigations. Untouched properties
// are never included; updates are diff-based, not full-state.
//
// A dirty navigation pointing to a related entity without an identity is a
// caller error; updates never deep-insert.
func (b *Builder) BuildUpdatePayload(e *Entity, omit OmitPolicy) (*Payload, error) {
	omit = omit.resolve(b.flags)

	pl := NewPayload()
	if b.flags.ProvideTypeAnnotation {
		pl.Set(typeAnnotation, e.schema.TypeName)
	}

	for _, prop := range e.schema.Properties {
		if prop.IsComputed || !e.IsDirty(prop.Name) {
			continue
		}
		wire, _ := e.rawValue(prop.Name)
		pl.Set(prop.Name, wire)
	}

	for _, nav := range e.schema.Navigations {
		if !e.IsDirty(nav.Name) {
			continue
		}
		nv := e.navCache[nav.Name]
		if nv == nil {
			continue
		}
		if nav.IsCollection {
			if nv.collection == nil {
				continue
			}
			binds := make([]string, 0, len(nv.collection))
			for _, rel := range nv.collection {
				id, ok := rel.Identity()
				if !ok {
					return nil, unsupportedEntityValuef(rel, "%s.%s: related %s has no identity; updates cannot deep-insert", e.schema.TypeName, nav.Name, rel.schema.TypeName)
				}
				binds = append(binds, b.bindRef(id))
			}
			pl.Set(nav.Name+"@odata.bind", binds)
		} else {
			if nv.single == nil {
				continue
			}
			id, ok := nv.single.Identity()
			if !ok {
				return nil, unsupportedEntityValuef(nv.single, "%s.%s: related %s has no identity; updates cannot deep-insert", e.schema.TypeName, nav.Name, nv.single.schema.TypeName)
			}
			pl.Set(nav.Name+"@odata.bind", b.bindRef(id))
		}
	}

	omit.applyTo(pl)
	return pl, nil
}

func (b *Builder) bindRef(identity string) string {
	if b.flags.BindRequiresSlash {
		return "/" + identity
	}
	return identity
}
