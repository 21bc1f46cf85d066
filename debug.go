package odata

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

type DumpFlags uint64

const (
	DumpSchema = DumpFlags(1 << iota)
	DumpValues
	DumpDirty
	DumpNavigations

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep = strings.Repeat("-", 60)

	dumpSpew = &spew.ConfigState{Indent: "  ", SortKeys: true, DisableMethods: true}
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// DumpEntity renders an entity's schema, stored values and dirty marks for
// debugging. Primary keys carry a "*" suffix, collections "[]", dirty
// members "(dirty)".
func (e *Entity) DumpEntity(f DumpFlags) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s", e.schema.TypeName)
	if id, ok := e.Identity(); ok {
		fmt.Fprintf(&buf, " %s", id)
	} else {
		buf.WriteString(" (new)")
	}
	if e.persisted {
		buf.WriteString(" persisted")
	}
	buf.WriteByte('\n')

	if f.Contains(DumpSchema) || f.Contains(DumpValues) || f.Contains(DumpDirty) {
		fmt.Fprintln(&buf, dumpSep)
		for _, prop := range e.schema.Properties {
			name := prop.Name
			if prop.IsCollection {
				name += "[]"
			}
			if prop.IsPrimaryKey {
				name += "*"
			}
			if f.Contains(DumpDirty) && e.IsDirty(prop.Name) {
				name += " (dirty)"
			}
			if f.Contains(DumpValues) {
				wire, ok := e.values[prop.Name]
				if !ok {
					fmt.Fprintf(&buf, "%s: <unset>\n", name)
				} else {
					fmt.Fprintf(&buf, "%s: %s", name, dumpSpew.Sdump(wire))
				}
			} else {
				fmt.Fprintf(&buf, "%s: %v\n", name, prop.Type)
			}
		}
	}

	if f.Contains(DumpNavigations) {
		fmt.Fprintln(&buf, dumpSep)
		for _, nav := range e.schema.Navigations {
			name := nav.Name
			if nav.IsCollection {
				name += "[]"
			}
			if e.IsDirty(nav.Name) {
				name += " (dirty)"
			}
			nv := e.navCache[nav.Name]
			switch {
			case nv == nil:
				fmt.Fprintf(&buf, "%s: -> %s\n", name, nav.TargetType)
			case nav.IsCollection:
				fmt.Fprintf(&buf, "%s: %d cached\n", name, len(nv.collection))
			case nv.single == nil:
				fmt.Fprintf(&buf, "%s: null\n", name)
			default:
				if id, ok := nv.single.Identity(); ok {
					fmt.Fprintf(&buf, "%s: %s\n", name, id)
				} else {
					fmt.Fprintf(&buf, "%s: new %s\n", name, nv.single.schema.TypeName)
				}
			}
		}
	}

	return buf.String()
}
