package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"stay_finder/internal/adapters/catalogapi"
	"stay_finder/internal/adapters/catalogfile"
	server "stay_finder/internal/adapters/http_server"
	"stay_finder/internal/adapters/observability"
	redisad "stay_finder/internal/adapters/redis"
	"stay_finder/internal/app"
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
	"stay_finder/internal/shared"
	mysqlrepo "stay_finder/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// db, only when something reads or writes it
	var repo *mysqlrepo.Repo
	if cfg.CatalogSource == shared.SourceMySQL || cfg.AuditLog {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	}

	// catalog
	var src domain.CatalogSource
	switch cfg.CatalogSource {
	case shared.SourceMySQL:
		src = repo
	case shared.SourceAPI:
		client, err := catalogapi.New(cfg.CatalogAPIBase, cfg.CatalogAPIKey, cfg.CatalogAPIRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize catalog API client")
		}
		src = app.NewRemoteSource(client)
	default:
		src = catalogfile.New(cfg.CatalogPath, cfg.ActivitiesPath)
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("catalog load failed")
	}
	acts, err := catalog.LoadActivities(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("activity table load failed")
	}
	log.Info().Int("venues", cat.Len()).Int("with_activities", len(acts.Venues())).Msg("catalog loaded")

	// deps
	var cache domain.Cache
	if cfg.RedisEnabled {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; serving without cache")
		} else {
			cache = rc
			defer rc.Close()
		}
	}
	var audit domain.RecommendationLog
	if cfg.AuditLog {
		audit = repo
	}
	svc := app.NewRecommendService(cat, acts, cache, cfg.CacheTTL, audit)

	// http
	srv := server.New(cfg.HTTPTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
