package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const schemaCacheTTL = 5 * time.Minute

// schemaCache holds the rendered schema text. The store file is opened
// read-only so the structure cannot change underneath the cache; the TTL
// only bounds staleness if the file is swapped out between restarts of
// an external writer.
type schemaCache struct {
	mu        sync.RWMutex
	text      string
	expiresAt time.Time
	sf        singleflight.Group // deduplicate concurrent builds
}

func newSchemaCache() *schemaCache {
	return &schemaCache{}
}

func (c *schemaCache) get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.text == "" || time.Now().After(c.expiresAt) {
		return "", false
	}
	return c.text, true
}

func (c *schemaCache) set(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.expiresAt = time.Now().Add(schemaCacheTTL)
}

func (c *schemaCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
}

// SchemaForLLM renders every table's columns as a text block for model
// prompt context. Concurrent callers share a single introspection pass.
func (s *Store) SchemaForLLM(ctx context.Context) (string, error) {
	if text, ok := s.schema.get(); ok {
		log.Debug().Msg("schema cache hit")
		return text, nil
	}

	v, err, _ := s.schema.sf.Do("schema", func() (interface{}, error) {
		// Double-check in case another goroutine populated the cache
		// while we waited to enter.
		if text, ok := s.schema.get(); ok {
			return text, nil
		}

		start := time.Now()
		tables, err := s.Tables(ctx)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("Database schema:\n\n")
		for _, table := range tables {
			cols, err := s.TableSchema(ctx, table)
			if err != nil {
				return "", err
			}
			sb.WriteString(renderTableSchema(table, cols))
			sb.WriteString("\n")
		}

		text := sb.String()
		s.schema.set(text)

		log.Info().
			Int("tables", len(tables)).
			Dur("took", time.Since(start)).
			Msg("schema text cached")

		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("introspect schema: %w", err)
	}
	return v.(string), nil
}

// InvalidateSchemaCache drops the cached schema text so the next call
// re-introspects the store.
func (s *Store) InvalidateSchemaCache() {
	s.schema.invalidate()
}

func renderTableSchema(table string, cols []ColumnInfo) string {
	var sb strings.Builder
	sb.WriteString("Table: " + table + "\n")
	sb.WriteString("Columns:\n")
	for _, col := range cols {
		sb.WriteString(fmt.Sprintf("  - %s: %s", col.Name, col.Type))
		if col.PrimaryKey {
			sb.WriteString(" (PRIMARY KEY)")
		}
		if col.NotNull {
			sb.WriteString(" NOT NULL")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
