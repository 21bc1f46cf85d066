package odata

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntity_SetGet(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")

	setOrPanic(p, "Name", "Widget")
	if got := must(p.Get("Name")); got != "Widget" {
		t.Fatalf("Get(Name) = %v", got)
	}

	setOrPanic(p, "Price", decimal.RequireFromString("10.50"))
	price := must(p.Get("Price")).(decimal.Decimal)
	if !price.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("Get(Price) = %v", price)
	}

	if got := must(p.Get("CategoryID")); got != nil {
		t.Fatalf("unset property should read as nil, got %v", got)
	}
}

func TestEntity_UnknownMember(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")

	var sme *SchemaMismatchError
	if err := p.Set("Bogus", 1); !errors.As(err, &sme) {
		t.Fatalf("Set(Bogus) err = %T %v", err, err)
	}
	if _, err := p.Get("Bogus"); !errors.As(err, &sme) {
		t.Fatalf("Get(Bogus) err = %T %v", err, err)
	}
	if err := p.SetRelated("Bogus", nil); !errors.As(err, &sme) {
		t.Fatalf("SetRelated(Bogus) err = %T %v", err, err)
	}
	// a navigation is not a scalar property
	if err := p.Set("Category", 1); !errors.As(err, &sme) {
		t.Fatalf("Set(Category) err = %T %v", err, err)
	}
}

func TestEntity_DirtyTracking(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	if p.IsDirty("Name") {
		t.Fatalf("fresh entity should be clean")
	}

	setOrPanic(p, "Name", "Widget")
	if !p.IsDirty("Name") {
		t.Fatalf("Name should be dirty after Set")
	}

	// assigning the same value again is not a mutation
	p2 := newEntityOrPanic(nw, "Product")
	setOrPanic(p2, "ProductID", 5)
	p2.Reset()
	setOrPanic(p2, "ProductID", 5)
	if p2.IsDirty("ProductID") {
		t.Fatalf("re-assigning the identical value should not mark dirty")
	}

	// reverting to the original value keeps the dirty mark; the diff is
	// based on mutation history, not final-vs-original equality
	setOrPanic(p2, "ProductID", 6)
	setOrPanic(p2, "ProductID", 5)
	if !p2.IsDirty("ProductID") {
		t.Fatalf("reverted property should stay dirty")
	}
}

func TestEntity_DirtyNamesOrder(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	setOrPanic(p, "CategoryID", 3)
	setOrPanic(p, "Name", "Widget")
	cat := newEntityOrPanic(nw, "Category")
	ensure(p.SetRelated("Category", cat))

	got := p.DirtyNames()
	want := []string{"Name", "CategoryID", "Category"}
	if len(got) != len(want) {
		t.Fatalf("DirtyNames() = %v, wanted %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DirtyNames() = %v, wanted %v (schema declaration order)", got, want)
		}
	}
}

func TestEntity_Reset(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	setOrPanic(p, "Name", "Widget")
	cat := newEntityOrPanic(nw, "Category")
	ensure(p.SetRelated("Category", cat))

	p.Reset()
	if p.IsDirty("Name") || p.IsDirty("Category") {
		t.Fatalf("Reset should clear the dirty set")
	}
	if rel := must(p.Related("Category")); rel != nil {
		t.Fatalf("Reset should clear the navigation cache")
	}
	if got := must(p.Get("Name")); got != "Widget" {
		t.Fatalf("Reset should keep stored values, got %v", got)
	}
}

func TestEntity_Navigations(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	cat := newEntityOrPanic(nw, "Category")

	ensure(p.SetRelated("Category", cat))
	if rel := must(p.Related("Category")); rel != cat {
		t.Fatalf("Related(Category) = %v", rel)
	}
	if !p.IsDirty("Category") {
		t.Fatalf("navigation assignment should mark dirty")
	}

	c := newEntityOrPanic(nw, "Category")
	p1 := newEntityOrPanic(nw, "Product")
	ensure(c.SetRelatedCollection("Products", []*Entity{p1}))
	if rels := must(c.RelatedCollection("Products")); len(rels) != 1 || rels[0] != p1 {
		t.Fatalf("RelatedCollection(Products) = %v", rels)
	}

	// collection vs scalar mismatch
	var sme *SchemaMismatchError
	if err := c.SetRelated("Products", p1); !errors.As(err, &sme) {
		t.Fatalf("SetRelated on a collection err = %T %v", err, err)
	}
	if err := p.SetRelatedCollection("Category", nil); !errors.As(err, &sme) {
		t.Fatalf("SetRelatedCollection on a scalar err = %T %v", err, err)
	}
	if _, err := c.Related("Products"); !errors.As(err, &sme) {
		t.Fatalf("Related on a collection err = %T %v", err, err)
	}
	if _, err := p.RelatedCollection("Category"); !errors.As(err, &sme) {
		t.Fatalf("RelatedCollection on a scalar err = %T %v", err, err)
	}
}

func TestEntity_Persisted(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	if p.Persisted() {
		t.Fatalf("fresh entity must not be persisted")
	}
	p.MarkPersisted()
	if !p.Persisted() {
		t.Fatalf("MarkPersisted did not stick")
	}
}

func TestEntity_SetUnsupportedValue(t *testing.T) {
	p := newEntityOrPanic(nw, "Product")
	var uve *UnsupportedValueError
	if err := p.Set("Name", 42); !errors.As(err, &uve) {
		t.Fatalf("Set(Name, 42) err = %T %v", err, err)
	}
	if p.IsDirty("Name") {
		t.Fatalf("failed Set must not mutate state")
	}
}
