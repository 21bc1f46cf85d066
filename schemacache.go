package odata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// SchemaCache persists registry descriptors to a local Bolt file so that a
// service's metadata document does not have to be fetched and parsed on
// every start. Entries are keyed by service URL; a service whose metadata
// changed is simply saved again over the old entry.
type SchemaCache struct {
	bdb    *bbolt.DB
	logger *slog.Logger
}

type SchemaCacheOptions struct {
	Logger *slog.Logger
}

const schemaCacheFormatVer = 1

var schemaCacheBucket = []byte("schemas")

type schemaCacheEntry struct {
	FormatVer uint64               `msgpack:"v"`
	SavedAt   time.Time            `msgpack:"t"`
	Entities  []*SchemaDescriptor  `msgpack:"e"`
	Complexes []*ComplexDescriptor `msgpack:"c,omitempty"`
	Enums     []*EnumDescriptor    `msgpack:"n,omitempty"`
}

func OpenSchemaCache(path string, o SchemaCacheOptions) (*SchemaCache, error) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	bdb, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("schema cache: %w", err)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(schemaCacheBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("schema cache: %w", err)
	}
	return &SchemaCache{bdb: bdb, logger: o.Logger}, nil
}

func (c *SchemaCache) Close() error {
	return c.bdb.Close()
}

// Save stores the registry's descriptors under the service URL.
func (c *SchemaCache) Save(serviceURL string, reg *Registry) error {
	entry := &schemaCacheEntry{
		FormatVer: schemaCacheFormatVer,
		SavedAt:   time.Now(),
		Entities:  reg.entities,
		Complexes: reg.complexes,
		Enums:     reg.enums,
	}
	raw, err := msgpack.Marshal(entry)
	if err != nil {
		return fmt.Errorf("schema cache: failed to encode %s: %w", serviceURL, err)
	}
	err = c.bdb.Update(func(btx *bbolt.Tx) error {
		return nonNil(btx.Bucket(schemaCacheBucket)).Put([]byte(serviceURL), raw)
	})
	if err != nil {
		return err
	}
	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "schema cache: saved", slog.String("url", serviceURL), slog.Int("entities", len(entry.Entities)), slog.Int("size", len(raw)))
	return nil
}

// Load rebuilds a registry from a previously saved entry. The second return
// is false when the URL has no entry or the entry was written by an
// incompatible format version (stale caches are re-reflected, not
// migrated).
func (c *SchemaCache) Load(serviceURL string) (*Registry, bool, error) {
	var raw []byte
	err := c.bdb.View(func(btx *bbolt.Tx) error {
		if v := nonNil(btx.Bucket(schemaCacheBucket)).Get([]byte(serviceURL)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("schema cache: %w", err)
	}
	if raw == nil {
		return nil, false, nil
	}

	var entry schemaCacheEntry
	if err := msgpack.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("schema cache: failed to decode %s: %w", serviceURL, err)
	}
	if entry.FormatVer != schemaCacheFormatVer {
		c.logger.LogAttrs(context.Background(), slog.LevelWarn, "schema cache: discarding stale entry", slog.String("url", serviceURL), slog.Uint64("ver", entry.FormatVer))
		return nil, false, nil
	}

	// Re-register through the normal paths so derived lookup maps are
	// rebuilt and validation reruns.
	reg := NewRegistry()
	for _, desc := range entry.Enums {
		reg.addEnumType(desc)
	}
	for _, desc := range entry.Complexes {
		reg.addComplexType(desc)
	}
	for _, desc := range entry.Entities {
		reg.addEntityType(desc)
	}
	return reg, true, nil
}
