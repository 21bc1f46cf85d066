package odata

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ServiceConfig describes one endpoint for tools that embed this client:
// where the service lives, where its schema cache sits, and which server
// quirks apply. Programs talking to multiple endpoints load one config per
// endpoint.
type ServiceConfig struct {
	// URL is the endpoint address, the one that can be suffixed with
	// $metadata. Normalized to end with a slash.
	URL string `toml:"url"`

	// SchemaCachePath optionally points at the Bolt file used by
	// SchemaCache. Empty means no caching.
	SchemaCachePath string `toml:"schema-cache-path"`

	SkipNullProperties    bool `toml:"skip-null-properties"`
	ProvideTypeAnnotation bool `toml:"provide-type-annotation"`
	BindRequiresSlash     bool `toml:"bind-requires-slash"`
}

const defaultServiceConfig = `
# OData service configuration.
provide-type-annotation = true
skip-null-properties = false
bind-requires-slash = false
`

// LoadServiceConfig reads a TOML service configuration, applying defaults
// for anything the file leaves unset.
func LoadServiceConfig(path string) (*ServiceConfig, error) {
	c := new(ServiceConfig)
	if _, err := toml.Decode(defaultServiceConfig, c); err != nil {
		panic(fmt.Errorf("bad default service config: %w", err))
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("service config %s: %w", path, err)
	}
	if err := c.adjust(); err != nil {
		return nil, fmt.Errorf("service config %s: %w", path, err)
	}
	return c, nil
}

func (c *ServiceConfig) adjust() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if !strings.HasSuffix(c.URL, "/") {
		c.URL += "/"
	}
	return nil
}

// Flags returns the server flags portion of the configuration.
func (c *ServiceConfig) Flags() ServerFlags {
	return ServerFlags{
		SkipNullProperties:    c.SkipNullProperties,
		ProvideTypeAnnotation: c.ProvideTypeAnnotation,
		BindRequiresSlash:     c.BindRequiresSlash,
	}
}
