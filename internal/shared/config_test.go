package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"stay_finder/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"CATALOG_SOURCE", "INGEST_WORKERS", "CACHE_TTL_SECONDS", "REDIS_ENABLED"} {
		t.Setenv(k, "")
	}
	c := shared.Load()
	if c.CatalogSource != shared.SourceFile || c.Workers != 8 || c.CacheTTL != 15*time.Minute || c.RedisEnabled {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CATALOG_SOURCE", "MySQL")
	t.Setenv("INGEST_WORKERS", "0")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	c := shared.Load()
	if c.CatalogSource != shared.SourceMySQL || c.Workers != 1 || !c.RedisEnabled || c.CacheTTL != time.Minute {
		t.Fatalf("unexpected config: %+v", c)
	}

	t.Setenv("CATALOG_SOURCE", "ftp")
	if c := shared.Load(); c.CatalogSource != shared.SourceFile {
		t.Fatalf("unknown source falls back to file, got %q", c.CatalogSource)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CATALOG_PATH=fromdotenv.yaml\nLOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	chdir(t, dir)
	t.Setenv("CATALOG_PATH", "")
	os.Unsetenv("CATALOG_PATH")
	t.Setenv("LOG_LEVEL", "warn")

	c := shared.Load()
	if c.LogLevel != "warn" {
		t.Fatalf("process env wins over .env, got %q", c.LogLevel)
	}
	if c.CatalogPath != "fromdotenv.yaml" {
		t.Fatalf(".env not applied: %q", c.CatalogPath)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
