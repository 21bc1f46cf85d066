package odata

import (
	"testing"

	"github.com/google/uuid"
)

func TestIdentity_Absent(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	if id, ok := p.Identity(); ok {
		t.Fatalf("entity without key values should have no identity, got %q", id)
	}

	// composite key with only one half set
	od := newEntityOrPanic(nw, "OrderDetail")
	setOrPanic(od, "OrderID", 1)
	if id, ok := od.Identity(); ok {
		t.Fatalf("partially keyed entity should have no identity, got %q", id)
	}
}

func TestIdentity_SingleKey(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	setOrPanic(p, "ProductID", 5)
	if id, ok := p.Identity(); !ok || id != "Products(5)" {
		t.Fatalf("Identity() = %q, %v", id, ok)
	}

	s := newEntityOrPanic(nw, "Supplier")
	setOrPanic(s, "SupplierID", uuid.MustParse("0f5b9b8c-7f0a-4a55-8f94-e7cb74e2e8e8"))
	if id, ok := s.Identity(); !ok || id != "Suppliers(0f5b9b8c-7f0a-4a55-8f94-e7cb74e2e8e8)" {
		t.Fatalf("Identity() = %q, %v", id, ok)
	}
}

func TestIdentity_StringKeyQuoting(t *testing.T) {
	c := newEntityOrPanic(nw, "Customer")
	setOrPanic(c, "Code", "ALFKI")
	if id, ok := c.Identity(); !ok || id != "Customers('ALFKI')" {
		t.Fatalf("Identity() = %q, %v", id, ok)
	}

	setOrPanic(c, "Code", "O'BRIEN")
	if id, ok := c.Identity(); !ok || id != "Customers('O''BRIEN')" {
		t.Fatalf("Identity() = %q, %v", id, ok)
	}
}

func TestIdentity_CompositeKey(t *testing.T) {
	od := newEntityOrPanic(nw, "OrderDetail")
	setOrPanic(od, "ProductID", 5)
	setOrPanic(od, "OrderID", 1)
	// schema declaration order, not assignment order
	if id, ok := od.Identity(); !ok || id != "OrderDetails(OrderID=1,ProductID=5)" {
		t.Fatalf("Identity() = %q, %v", id, ok)
	}
}

func TestIdentity_Reproducible(t *testing.T) {
	od := newEntityOrPanic(nw, "OrderDetail")
	setOrPanic(od, "OrderID", 1)
	setOrPanic(od, "ProductID", 5)
	first, ok := od.Identity()
	if !ok {
		t.Fatalf("no identity")
	}
	for i := 0; i < 3; i++ {
		if id, _ := od.Identity(); id != first {
			t.Fatalf("Identity() not reproducible: %q vs %q", id, first)
		}
	}
}

func TestIdentity_NoCollectionSegment(t *testing.T) {
	reg := NewRegistry()
	DefineEntityType(reg, "Detached", "", func(b *EntityTypeBuilder) {
		b.Property("ID", Integer, PrimaryKey)
	})
	e := newEntityOrPanic(reg, "Detached")
	setOrPanic(e, "ID", 1)
	if id, ok := e.Identity(); ok {
		t.Fatalf("type without a collection segment cannot have an identity, got %q", id)
	}
}
