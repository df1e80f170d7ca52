package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stay_finder/internal/adapters/catalogapi"
	"stay_finder/internal/adapters/catalogfile"
	"stay_finder/internal/adapters/observability"
	"stay_finder/internal/app"
	"stay_finder/internal/catalog"
	"stay_finder/internal/domain"
	"stay_finder/internal/shared"
	mysqlrepo "stay_finder/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	log.Info().
		Str("source", cfg.CatalogSource).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	// 2) read and validate the catalog before touching the database
	var src domain.CatalogSource
	switch cfg.CatalogSource {
	case shared.SourceAPI:
		client, err := catalogapi.New(cfg.CatalogAPIBase, cfg.CatalogAPIKey, cfg.CatalogAPIRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize catalog API client")
		}
		src = app.NewRemoteSource(client)
	case shared.SourceMySQL:
		log.Fatal().Msg("CATALOG_SOURCE=mysql is the ingestor's target; use file or api")
	default:
		src = catalogfile.New(cfg.CatalogPath, cfg.ActivitiesPath)
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog load failed")
	}
	acts, err := catalog.LoadActivities(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Msg("activity table load failed")
	}

	// 3) sync into MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	ing := app.NewIngestionService(mysqlrepo.New(db))
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for pos, v := range cat.Venues() {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(pos int, v domain.Venue) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := ing.IngestVenue(ctx, pos, v, acts.ActivitiesOf(v.Name)); err != nil {
				failed.Add(1)
				log.Warn().Str("venue", v.Name).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("venue", v.Name).Msg("ingest ok")
		}(pos, v)
	}

	wg.Wait()
	log.Info().Int("venues", cat.Len()).Int32("failed", failed.Load()).Msg("ingestion completed")
}
