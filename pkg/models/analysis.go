package models

// Verdict is a classifier decision for one image against one query description.
type Verdict struct {
	IsMatch     bool   `json:"is_match"`
	Explanation string `json:"explanation"`
}

// AnalysisEntry stores one cached image-analysis verdict.
//
// ImagePath records where the image was last seen and is informational
// only; identity comes from the content fingerprints in the cache key.
// Timestamp is the insertion time, kept as the raw string; values written
// by other tools round-trip untouched.
type AnalysisEntry struct {
	Verdict
	ImagePath string `json:"image_path"`
	Timestamp string `json:"timestamp"`
}

// CacheStats counts lookups over the lifetime of one cache instance.
type CacheStats struct {
	Hits         int64 `json:"hits"`
	Misses       int64 `json:"misses"`
	TotalQueries int64 `json:"total_queries"`
}

// CacheMetadata describes a persisted cache snapshot.
type CacheMetadata struct {
	LastUpdated  string     `json:"last_updated"`
	TotalEntries int        `json:"total_entries"`
	Stats        CacheStats `json:"stats"`
}

// CacheSnapshot is the on-disk layout of the analysis cache file. Older
// versions of the tool persisted the bare cache mapping without the
// wrapper; the loader accepts both.
type CacheSnapshot struct {
	Cache    map[string]AnalysisEntry `json:"cache"`
	Metadata CacheMetadata            `json:"metadata"`
}

// StatsReport summarizes cache effectiveness for display.
type StatsReport struct {
	TotalEntries int    `json:"total_entries"`
	Hits         int64  `json:"hits"`
	Misses       int64  `json:"misses"`
	HitRate      string `json:"hit_rate"`
	StorageSize  string `json:"storage_size"`
}
