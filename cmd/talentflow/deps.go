package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/talentflow/auth-service/internal/api/handler"
	"github.com/talentflow/auth-service/internal/core/ports"
	"github.com/talentflow/auth-service/internal/infrastructure/db/memory"
	"github.com/talentflow/auth-service/internal/infrastructure/db/mongo"
	"github.com/talentflow/auth-service/internal/infrastructure/db/redis"
	"github.com/talentflow/auth-service/internal/pkg/config"
)

// userStore bundles the selected repository with its readiness probes and
// a function that releases the underlying connection.
type userStore struct {
	repo   ports.UserRepository
	checks map[string]handler.Checker
	close  func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*userStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongo.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
		return &userStore{
			repo:   repo,
			checks: map[string]handler.Checker{"mongo": repo.Ping},
			close:  client.Disconnect,
		}, nil

	case config.StoreRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		repo := redis.NewUserRepository(client, cfg.Redis.KeyPrefix)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return &userStore{
			repo:   repo,
			checks: map[string]handler.Checker{"redis": repo.Ping},
			close:  func(context.Context) error { return client.Close() },
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("using in-memory user store; accounts are lost on restart")
		return &userStore{
			repo:   memory.NewUserRepository(),
			checks: map[string]handler.Checker{},
			close:  func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
