package odata

// ServerFlags captures per-service quirks that change how payloads are
// built. The values are fixed by the service configuration and read-only
// inside this package.
type ServerFlags struct {
	// SkipNullProperties makes dropping every null-valued entry the default
	// omission policy.
	SkipNullProperties bool

	// ProvideTypeAnnotation includes "@odata.type" in every payload.
	ProvideTypeAnnotation bool

	// BindRequiresSlash prefixes bind references with "/", which some
	// servers insist on ("/Products(5)" instead of "Products(5)").
	BindRequiresSlash bool
}

// DefaultServerFlags matches the behavior of a standards-following OData v4
// endpoint.
var DefaultServerFlags = ServerFlags{
	ProvideTypeAnnotation: true,
}
