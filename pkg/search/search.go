// Package search runs a query over a directory of images, classifying each
// image at most once per query.
package search

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/NeuronJay/snapmatch/pkg/cache/analysis"
	"github.com/NeuronJay/snapmatch/pkg/cache/expansion"
	"github.com/NeuronJay/snapmatch/pkg/models"
)

// Classifier decides whether an image matches a query description. The
// implementation is external to this repository; it is invoked only when
// the verdict cache has no entry for the pair.
type Classifier interface {
	Classify(imagePath, description string) (models.Verdict, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(imagePath, description string) (models.Verdict, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(imagePath, description string) (models.Verdict, error) {
	return f(imagePath, description)
}

// Expander rewrites a short user query into a detailed search description.
type Expander interface {
	Expand(query string) (string, error)
}

// ExpanderFunc adapts a function to the Expander interface.
type ExpanderFunc func(query string) (string, error)

// Expand implements Expander.
func (f ExpanderFunc) Expand(query string) (string, error) {
	return f(query)
}

// Result pairs an image with its verdict for one query.
type Result struct {
	Path    string
	Verdict models.Verdict
	Cached  bool
}

// Runner classifies every image in a directory against one expanded query.
// Each image is looked up in the verdict cache first; the classifier runs
// only on misses, and its verdict is reported back to the cache. The cache
// is persisted once, after the whole batch.
type Runner struct {
	Cache      *analysis.Cache
	Classifier Classifier
}

// Run analyzes all images directly inside dir. A classifier failure skips
// that one image without caching anything; the rest of the batch proceeds.
func (r *Runner) Run(dir, expandedQuery string) ([]Result, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if v, ok := r.Cache.Get(path, expandedQuery); ok {
			results = append(results, Result{Path: path, Verdict: v, Cached: true})
			continue
		}
		v, err := r.Classifier.Classify(path, expandedQuery)
		if err != nil {
			log.WithError(err).Warnf("classification failed for %s, skipping", filepath.Base(path))
			continue
		}
		r.Cache.Set(path, expandedQuery, v)
		results = append(results, Result{Path: path, Verdict: v})
	}

	if err := r.Cache.Save(); err != nil {
		log.WithError(err).Warn("verdict cache not persisted")
	}
	return results, nil
}

// Matches filters results down to positive verdicts.
func Matches(results []Result) []Result {
	var matched []Result
	for _, res := range results {
		if res.Verdict.IsMatch {
			matched = append(matched, res)
		}
	}
	return matched
}

// CachedExpander front-ends an Expander with the expansion cache. When the
// wrapped expander fails, the raw query is returned unchanged and nothing
// is cached.
type CachedExpander struct {
	Cache    *expansion.Cache
	Expander Expander
}

// Expand returns the expanded description for a raw query, from cache when
// possible.
func (e *CachedExpander) Expand(rawQuery string) (string, error) {
	if expanded, ok := e.Cache.Get(rawQuery); ok {
		return expanded, nil
	}
	expanded, err := e.Expander.Expand(rawQuery)
	if err != nil {
		log.WithError(err).Warn("query expansion failed, using raw query")
		return rawQuery, nil
	}
	e.Cache.Set(rawQuery, expanded)
	if err := e.Cache.Save(); err != nil {
		log.WithError(err).Warn("expansion cache not persisted")
	}
	return expanded, nil
}

// imageExts are the file extensions the search workflow recognizes.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".heic": true,
}

// IsImageFile reports whether name has a recognized image extension.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// ListImages returns the image files directly inside dir, sorted by name.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
