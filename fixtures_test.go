package odata

import (
	"testing"
	"time"
)

// The test schema is a cut-down Northwind: products with categories and
// suppliers, orders with employees and composite-key order details.
var nw = newNorthwindRegistry()

func newNorthwindRegistry() *Registry {
	reg := NewRegistry()

	DefineEnumType(reg, "ShipMethod", "Truck", "Air", "Sea")

	DefineComplexType(reg, "GeoPoint", func(b *ComplexTypeBuilder) {
		b.Property("Lat", Float)
		b.Property("Lon", Float)
	})
	DefineComplexType(reg, "Address", func(b *ComplexTypeBuilder) {
		b.Property("Street", String)
		b.Property("City", String, NotNullable)
		b.Property("Zip", String)
		b.ComplexProperty("Geo", "GeoPoint")
	})

	DefineEntityType(reg, "Category", "Categories", func(b *EntityTypeBuilder) {
		b.Property("CategoryID", Integer, PrimaryKey)
		b.Property("Name", String)
		b.Navigation("Products", "Product", CollectionOf)
	})

	DefineEntityType(reg, "Supplier", "Suppliers", func(b *EntityTypeBuilder) {
		b.Property("SupplierID", UUID, PrimaryKey)
		b.Property("Name", String)
	})

	DefineEntityType(reg, "Product", "Products", func(b *EntityTypeBuilder) {
		b.Property("ProductID", Integer, PrimaryKey)
		b.Property("Name", String)
		b.Property("Price", Decimal)
		b.Property("CategoryID", Integer)
		b.Property("SupplierID", UUID)
		b.Property("CreatedOn", Datetime, Computed)
		b.Navigation("Category", "Category", ForeignKey("CategoryID"))
		b.Navigation("Supplier", "Supplier", ForeignKey("SupplierID"))
	})

	DefineEntityType(reg, "Employee", "Employees", func(b *EntityTypeBuilder) {
		b.Property("EmployeeID", Integer, PrimaryKey)
		b.Property("Name", String)
		b.Navigation("Orders", "Order", CollectionOf)
	})

	DefineEntityType(reg, "Order", "Orders", func(b *EntityTypeBuilder) {
		b.Property("OrderID", Integer, PrimaryKey)
		b.Property("ShippedDate", Datetime)
		b.EnumProperty("ShipVia", "ShipMethod")
		b.ComplexProperty("ShipAddress", "Address")
		b.Property("EmployeeID", Integer)
		b.Navigation("Employee", "Employee", ForeignKey("EmployeeID"))
		b.Navigation("Details", "OrderDetail", CollectionOf)
	})

	DefineEntityType(reg, "OrderDetail", "OrderDetails", func(b *EntityTypeBuilder) {
		b.Property("OrderID", Integer, PrimaryKey)
		b.Property("ProductID", Integer, PrimaryKey)
		b.Property("Quantity", Integer)
	})

	DefineEntityType(reg, "Customer", "Customers", func(b *EntityTypeBuilder) {
		b.Property("Code", String, PrimaryKey)
		b.Property("CompanyName", String)
	})

	return reg
}

func newEntityOrPanic(reg *Registry, typeName string) *Entity {
	return must(New(reg, typeName))
}

func setOrPanic(e *Entity, name string, value any) {
	ensure(e.Set(name, value))
}

func mustParseTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", s, err)
	}
	return v
}
