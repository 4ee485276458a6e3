package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/config"
	"probability-quiz-service/internal/infra/file"
	"probability-quiz-service/internal/infra/memory"
	pgloader "probability-quiz-service/internal/infra/postgres"
	redisstore "probability-quiz-service/internal/infra/redis"
	"probability-quiz-service/internal/share"
)

// deps holds the wired service and whatever must be closed on shutdown.
type deps struct {
	service *app.QuizService
	closers []func()
	// sweepEvery is how often expired sessions are evicted; zero disables the sweeper.
	sweepEvery time.Duration
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildService wires catalog source, cache and session store from config.
// useRedis=false keeps everything in-process regardless of config.
func buildService(ctx context.Context, cfg config.Config, logger zerolog.Logger, pageURL string, useRedis bool) (*deps, error) {
	d := &deps{}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(memory.BuiltinCatalogs())
	switch {
	case cfg.Quiz.File != "":
		loader = file.NewCatalogLoader(cfg.Quiz.File)
		logger.Info().Str("file", cfg.Quiz.File).Msg("catalogs from file")
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		loader = pgloader.NewCatalogLoader(pool)
		logger.Info().Msg("catalogs from postgres")
	}

	var redisClient *redis.Client
	if useRedis && cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	catalogTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 30*time.Minute)
	d.sweepEvery = sessionTTL / 2
	var catalogs app.CatalogRepository
	var store app.SessionRepository
	if redisClient != nil {
		catalogs = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
		store = redisstore.NewSessionStore(redisClient, sessionTTL)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis catalog cache and session mirror enabled")
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
		store = memory.NewSessionStore(memory.WithIdleTTL(sessionTTL))
	}

	qr := share.NewQRBuilder(cfg.Share.QREndpoint, cfg.Share.QRSize)
	d.service = app.NewQuizService(store, catalogs,
		app.WithCatalogID(cfg.Quiz.Catalog),
		app.WithShareQRURL(qr.ImageURL(share.PageURL(cfg.Server.PublicURL, pageURL))),
		app.WithLogger(logger),
	)
	return d, nil
}
