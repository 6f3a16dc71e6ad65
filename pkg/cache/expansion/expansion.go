// Package expansion caches expanded query descriptions keyed by the raw
// user query.
package expansion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Cache maps normalized raw queries to their expanded descriptions,
// persisted as a JSON object. Like the analysis cache, it is owned by a
// single goroutine and persists only on Save.
type Cache struct {
	path    string
	entries map[string]string
}

// New loads the cache stored at path. The returned Cache is always usable;
// a non-nil error reports a corrupt or unreadable file that was recovered
// as empty.
func New(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]string),
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("read expansion cache: %w", err)
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return c, fmt.Errorf("decode expansion cache: %w", err)
	}
	if entries != nil {
		c.entries = entries
	}
	return c, nil
}

// Get returns the stored expansion for a raw query, if any. Lookups are
// case- and surrounding-whitespace-insensitive.
func (c *Cache) Get(rawQuery string) (string, bool) {
	expanded, ok := c.entries[normalize(rawQuery)]
	return expanded, ok
}

// Set stores the expansion for a raw query. In-memory only until Save.
func (c *Cache) Set(rawQuery, expanded string) {
	c.entries[normalize(rawQuery)] = expanded
}

// Save writes the mapping to the store file.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode expansion cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write expansion cache: %w", err)
	}
	return nil
}

// Len returns the number of cached expansions.
func (c *Cache) Len() int {
	return len(c.entries)
}

func normalize(rawQuery string) string {
	return strings.ToLower(strings.TrimSpace(rawQuery))
}
