package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ImagesDir != "./images" {
		t.Errorf("expected ./images, got %s", cfg.ImagesDir)
	}
	if cfg.Cache.AnalysisPath != "image_analysis_cache.json" {
		t.Errorf("unexpected analysis cache path: %s", cfg.Cache.AnalysisPath)
	}
	if cfg.Cache.ExpansionPath != "query_cache.json" {
		t.Errorf("unexpected expansion cache path: %s", cfg.Cache.ExpansionPath)
	}
	if cfg.Cache.MaxAgeDays != 30 {
		t.Errorf("expected 30 day default, got %d", cfg.Cache.MaxAgeDays)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_CACHE_DIR", "/var/cache/snapmatch")

	content := `
images_dir: "./photos"
cache:
  analysis_path: ${TEST_CACHE_DIR}/analysis.json
  max_age_days: 7
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ImagesDir != "./photos" {
		t.Errorf("expected ./photos, got %s", cfg.ImagesDir)
	}
	if cfg.Cache.AnalysisPath != "/var/cache/snapmatch/analysis.json" {
		t.Errorf("env var not expanded: got %s", cfg.Cache.AnalysisPath)
	}
	if cfg.Cache.MaxAgeDays != 7 {
		t.Errorf("expected 7 days, got %d", cfg.Cache.MaxAgeDays)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Cache.ExpansionPath != "query_cache.json" {
		t.Errorf("expansion path default lost: %s", cfg.Cache.ExpansionPath)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
