package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Catalog sources understood by the binaries.
const (
	SourceFile  = "file"
	SourceMySQL = "mysql"
	SourceAPI   = "api"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	HTTPTimeout    time.Duration
	MetricsAddr    string
	CatalogSource  string
	CatalogPath    string
	ActivitiesPath string
	CatalogAPIBase string
	CatalogAPIKey  string
	CatalogAPIRPS  int
	MySQLDSN       string
	AuditLog       bool
	RedisEnabled   bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	Workers        int
	CacheTTL       time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set win over it.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be read")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Msg("not an integer; using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		HTTPTimeout:    time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		CatalogSource:  strings.ToLower(env("CATALOG_SOURCE", SourceFile)),
		CatalogPath:    env("CATALOG_PATH", "data/places.json"),
		ActivitiesPath: env("ACTIVITIES_PATH", "data/activities.csv"),
		CatalogAPIBase: env("CATALOG_API_BASE_URL", ""),
		CatalogAPIKey:  env("CATALOG_API_KEY", ""),
		CatalogAPIRPS:  atoi("CATALOG_API_RPS", 5),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/stayfinder?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		AuditLog:       envBool("AUDIT_LOG", false),
		RedisEnabled:   envBool("REDIS_ENABLED", false),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		Workers:        atoi("INGEST_WORKERS", 8),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	switch c.CatalogSource {
	case SourceFile, SourceMySQL, SourceAPI:
	default:
		log.Warn().Str("source", c.CatalogSource).Msg("unknown CATALOG_SOURCE; using file")
		c.CatalogSource = SourceFile
	}
	if c.CatalogSource == SourceAPI && c.CatalogAPIKey == "" {
		log.Warn().Msg("CATALOG_API_KEY is empty")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
