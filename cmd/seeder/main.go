package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_search/internal/adapters/observability"
	redisad "hotel_search/internal/adapters/redis"
	"hotel_search/internal/app"
	"hotel_search/internal/domain"
	"hotel_search/internal/shared"
	"hotel_search/internal/storage/jsonfile"
	mysqlrepo "hotel_search/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("dataset", cfg.DatasetPath).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	src, err := jsonfile.Open(cfg.DatasetPath)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset load failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	seed := app.NewSeedService(src, repo, cache)

	started := time.Now()
	n, err := seed.SeedPlaces(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding places failed")
	}
	log.Info().Int("places", n).Msg("places seeded")

	ids, err := seed.HotelIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listing hotels failed")
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("seeding interrupted")
			break
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(1)

			if err := seed.SeedHotel(ctx, hotelID); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", hotelID).Err(err).Msg("seed failed")
				return
			}
			log.Debug().Int64("id", hotelID).Msg("seed ok")
		}(id)
	}

	wg.Wait()
	seed.Finish(ctx)

	log.Info().
		Int("hotels", len(ids)).
		Int64("failed", failed.Load()).
		Dur("took", time.Since(started)).
		Msg("seeding completed")
	if failed.Load() > 0 {
		stop()
		_ = db.Close()
		os.Exit(1)
	}
}
