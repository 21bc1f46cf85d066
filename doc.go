/*
Package odata implements the client side of an OData entity protocol:
it tracks the in-memory state of remote entities, computes minimal
change-sets for inserts and partial updates, and serializes entity
graphs to the JSON wire format with protocol annotations.

We implement:

1. Schema descriptors, immutable per-type descriptions of scalar
properties, navigation properties, complex types and enumerations,
registered once per service in a Registry.

2. Entities, mutable instances carrying a value store, a dirty set and
a navigation cache. Assigning a property records it as dirty; dirty
marks are based on mutation history, not value comparison against the
original.

3. A change-set builder producing insert payloads (full state, deep
inserts and @odata.bind references for related entities) and update
payloads (dirty properties only).

4. A schema cache persisting a registry's descriptors to a local Bolt
file, so that a service's metadata does not have to be parsed on every
start.

# Technical Details

**Identity.**
An entity's wire identity is its collection segment plus its escaped
primary key values, e.g. Products(5) or OrderDetails(OrderID=1,ProductID=5).
An entity with any unset primary key has no identity yet and is treated
as new.

**Insert payloads** contain every non-computed property in schema
declaration order, minus unset primary keys. Related entities that
already have an identity become name@odata.bind references; related
entities without one are embedded as nested insert payloads (deep
insert). The builder tracks the active expansion path and refuses
cyclic graphs.

**Update payloads** contain only properties marked dirty since the
entity was loaded or last saved, plus bind references for dirty
navigation properties.

**Omission policy** controls whether null-valued entries are dropped
from an outgoing payload: nothing, every null, or a named subset of
properties only when null.

This package performs no network I/O. The HTTP transport, the metadata
parser that produces descriptors, and query construction live outside
of it.
*/
package odata
