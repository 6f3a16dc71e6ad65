// Package analysis memoizes image-classification verdicts keyed by image
// content and query text, persisted as a single JSON snapshot file.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/NeuronJay/snapmatch/pkg/models"
)

// Cache memoizes (image, query) → verdict pairs. Keys are composite content
// fingerprints, so the same image under different filenames shares one entry
// and different queries against one image stay independent.
//
// A Cache is owned by a single goroutine; it does no internal locking, and
// two processes sharing one store file race on Save (last writer wins).
type Cache struct {
	path    string
	entries map[string]models.AnalysisEntry
	stats   models.CacheStats
}

// New loads the cache stored at path. The returned Cache is always usable:
// a missing file yields an empty cache, and a corrupt or unreadable file is
// reported through the error while the cache starts empty.
func New(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]models.AnalysisEntry),
	}
	if err := c.load(); err != nil {
		c.entries = make(map[string]models.AnalysisEntry)
		return c, err
	}
	return c, nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	// Current files wrap the mapping in a "cache" object beside metadata;
	// legacy files are the bare mapping itself.
	if gjson.GetBytes(data, "cache").IsObject() {
		var snap models.CacheSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return fmt.Errorf("decode cache snapshot: %w", err)
		}
		if snap.Cache != nil {
			c.entries = snap.Cache
		}
		return nil
	}

	var legacy map[string]models.AnalysisEntry
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("decode legacy cache: %w", err)
	}
	if legacy != nil {
		c.entries = legacy
	}
	return nil
}

// Get retrieves the cached verdict for an image and expanded query. The
// lookup never invokes a classifier; its only side effect is the hit or
// miss counter.
func (c *Cache) Get(imagePath, expandedQuery string) (models.Verdict, bool) {
	c.stats.TotalQueries++
	if entry, ok := c.entries[key(imagePath, expandedQuery)]; ok {
		c.stats.Hits++
		return entry.Verdict, true
	}
	c.stats.Misses++
	return models.Verdict{}, false
}

// Set stores a verdict for an image and expanded query, overwriting any
// previous entry for the pair. The write is in-memory only; callers batch
// many Sets and persist once with Save.
func (c *Cache) Set(imagePath, expandedQuery string, v models.Verdict) {
	c.entries[key(imagePath, expandedQuery)] = models.AnalysisEntry{
		Verdict:   v,
		ImagePath: imagePath,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Save writes the full snapshot, with metadata, to the store file. On
// failure the in-memory cache stays valid.
func (c *Cache) Save() error {
	snap := models.CacheSnapshot{
		Cache: c.entries,
		Metadata: models.CacheMetadata{
			LastUpdated:  time.Now().Format(time.RFC3339),
			TotalEntries: len(c.entries),
			Stats:        c.stats,
		},
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Stats reports cache effectiveness. Hit and miss counts cover this
// instance's lifetime only; the persisted metadata keeps the last saved
// snapshot of them for reference.
func (c *Cache) Stats() models.StatsReport {
	total := c.stats.Hits + c.stats.Misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.stats.Hits) / float64(total) * 100
	}
	return models.StatsReport{
		TotalEntries: len(c.entries),
		Hits:         c.stats.Hits,
		Misses:       c.stats.Misses,
		HitRate:      fmt.Sprintf("%.1f%%", rate),
		StorageSize:  c.storeSize(),
	}
}

func (c *Cache) storeSize() string {
	info, err := os.Stat(c.path)
	if err != nil {
		return "0 KB"
	}
	return humanize.IBytes(uint64(info.Size()))
}

// ClearOlderThan removes every entry created at or before now minus the
// given number of days, persists the result, and returns the removed count.
// An entry whose timestamp cannot be parsed is kept and logged; one bad
// record never aborts the sweep.
func (c *Cache) ClearOlderThan(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	removed := 0
	for k, entry := range c.entries {
		created, err := parseTimestamp(entry.Timestamp)
		if err != nil {
			log.WithError(err).Warnf("keeping cache entry %s with malformed timestamp", k)
			continue
		}
		if !created.After(cutoff) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed, c.Save()
}

// ClearByQuery removes every entry recorded for the given expanded query,
// across all images, persists the result, and returns the removed count.
func (c *Cache) ClearByQuery(expandedQuery string) (int, error) {
	suffix := keySeparator + FingerprintQuery(expandedQuery)
	removed := 0
	for k := range c.entries {
		if strings.HasSuffix(k, suffix) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed, c.Save()
}

// ClearAll empties the cache, persists the empty snapshot, and returns the
// number of entries dropped.
func (c *Cache) ClearAll() (int, error) {
	count := len(c.entries)
	c.entries = make(map[string]models.AnalysisEntry)
	return count, c.Save()
}

// QueryFingerprints returns the distinct query fingerprints present in the
// cache, sorted. Only fingerprints are retained, not the original query
// text.
func (c *Cache) QueryFingerprints() []string {
	seen := make(map[string]bool)
	for k := range c.entries {
		if _, qf, ok := strings.Cut(k, keySeparator); ok {
			seen[qf] = true
		}
	}
	fps := make([]string, 0, len(seen))
	for fp := range seen {
		fps = append(fps, fp)
	}
	sort.Strings(fps)
	return fps
}

// parseTimestamp accepts RFC 3339 timestamps and the zone-less form written
// by older versions of the tool, which carried no offset and meant local
// time.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
