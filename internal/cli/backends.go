package cli

import (
	"context"
	"fmt"
	"time"

	"category-quiz-service/internal/app"
	"category-quiz-service/internal/config"
	"category-quiz-service/internal/domain"
	"category-quiz-service/internal/gateway"
	"category-quiz-service/internal/infra/memory"
	pgstore "category-quiz-service/internal/infra/postgres"
	redisinfra "category-quiz-service/internal/infra/redis"
	"category-quiz-service/internal/logger"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backends is the store-side wiring shared by the server and the admin commands.
type backends struct {
	direct   *gateway.Direct
	sessions app.SessionRepository
	closers  []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends picks Postgres or the seeded in-memory store, and Redis or
// in-process caching, from config.
func openBackends(ctx context.Context, cfg config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	var store gateway.DocumentStore
	seed := false
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		pg := pgstore.NewDocumentStore(pool)
		if err := pg.Ping(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		store = pg
	} else {
		log.Warn("postgres url not configured, using in-memory document store")
		store = memory.NewDocumentStore()
		seed = true
	}

	loader := gateway.NewStoreLoader(store)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var cache gateway.QuestionCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, func() { _ = client.Close() })
		cache = redisinfra.NewQuestionCache(client, loader, quizTTL)
		b.sessions = redisinfra.NewSessionStore(client, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		cache = memory.NewQuestionCache(loader, quizTTL)
		b.sessions = memory.NewSessionStore()
	}

	b.direct = gateway.NewDirect(store, gateway.WithQuestionCache(cache), gateway.WithLogger(log))
	if seed {
		seedSampleQuestions(ctx, b.direct, log)
	}
	return b, nil
}

// adminGateway returns the HTTP gateway when a façade URL is set, otherwise
// a direct gateway over the configured store.
func adminGateway(ctx context.Context, cfg config.Config, flagURL string, log *zap.Logger) (gateway.Gateway, func(), error) {
	url := flagURL
	if url == "" {
		url = cfg.APIBaseURL()
	}
	if url != "" {
		log.Debug("using http gateway", zap.String("url", url))
		return gateway.NewHTTPClient(url, nil), func() {}, nil
	}
	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return b.direct, b.Close, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		JSON:  cfg.Production(),
	})
}

func defaultCategory(cfg config.Config) (domain.Category, error) {
	return domain.ParseCategory(cfg.Quiz.DefaultCategory)
}
