package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreMongo  = "mongo"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreBackend selects the user store: mongo, redis or memory.
	StoreBackend string `env:"STORE_BACKEND, default=mongo"`
	// CORSOrigins is a comma separated list of browser origins.
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:3000"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=24h"`
	JWTLeeway time.Duration `env:"JWT_LEEWAY, default=30s"`
	JWTIssuer string        `env:"JWT_ISSUER, default=talentflow"`
	// AdminCode gates admin self-registration. Empty disables it.
	AdminCode   string `env:"ADMIN_REGISTRATION_CODE"`
	BcryptCost  int    `env:"BCRYPT_COST,  default=10"`
	HashWorkers int    `env:"HASH_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=talentflow"`
}

type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR,       default=localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB,         default=0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX, default=talentflow:"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.StoreBackend {
	case StoreMongo, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	if cfg.Auth.JWTTTL <= 0 {
		return nil, fmt.Errorf("config: JWT_TTL must be positive, got %s", cfg.Auth.JWTTTL)
	}

	return &cfg, nil
}
