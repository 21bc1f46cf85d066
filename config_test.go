package odata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadServiceConfig(t *testing.T) {
	path := writeConfigFile(t, `
url = "https://example.com/odata"
schema-cache-path = "/var/cache/odata/schemas.db"
skip-null-properties = true
bind-requires-slash = true
`)
	c, err := LoadServiceConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := c.URL, "https://example.com/odata/"; got != want {
		t.Fatalf("URL = %q, wanted %q (trailing slash appended)", got, want)
	}
	if c.SchemaCachePath != "/var/cache/odata/schemas.db" {
		t.Fatalf("SchemaCachePath = %q", c.SchemaCachePath)
	}

	flags := c.Flags()
	if !flags.SkipNullProperties || !flags.BindRequiresSlash {
		t.Fatalf("flags = %+v, wanted quirks from file", flags)
	}
	if !flags.ProvideTypeAnnotation {
		t.Fatalf("ProvideTypeAnnotation default lost")
	}
}

func TestLoadServiceConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `url = "https://example.com/odata/"`)
	c, err := LoadServiceConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := c.Flags(), DefaultServerFlags; got != want {
		t.Fatalf("Flags() = %+v, wanted defaults %+v", got, want)
	}
	if c.SchemaCachePath != "" {
		t.Fatalf("SchemaCachePath = %q, wanted empty", c.SchemaCachePath)
	}
}

func TestLoadServiceConfig_Errors(t *testing.T) {
	if _, err := LoadServiceConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := writeConfigFile(t, `skip-null-properties = true`)
	_, err := LoadServiceConfig(path)
	if err == nil || !strings.Contains(err.Error(), "url is required") {
		t.Fatalf("err = %v, wanted url is required", err)
	}

	path = writeConfigFile(t, `url = 42`)
	if _, err := LoadServiceConfig(path); err == nil {
		t.Fatalf("expected error for mistyped url")
	}
}
