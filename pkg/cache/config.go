package cache

import (
	"errors"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds cache settings sourced from environment variables.
// Zero durations disable the corresponding behavior.
type Config struct {
	// Capacity is the maximum number of entries before LRU eviction kicks in.
	Capacity int `env:"MEMOCACHE_CAPACITY" envDefault:"100"`

	// DefaultTTL is applied to entries written without an explicit TTL.
	// Zero means entries never expire.
	DefaultTTL time.Duration `env:"MEMOCACHE_DEFAULT_TTL" envDefault:"0"`

	// CleanupInterval enables the background janitor when positive.
	CleanupInterval time.Duration `env:"MEMOCACHE_CLEANUP_INTERVAL" envDefault:"0"`
}

var defaultEnvLoaded sync.Once

// LoadConfig reads cache settings from the environment.
// It first attempts to load the default .env file if it hasn't been loaded
// yet, then parses environment variables into the Config struct.
func LoadConfig() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// NewFromConfig builds a cache from environment-sourced settings.
// Explicit options are applied after the config and take precedence.
// Validation matches New: non-positive capacity is ErrInvalidCapacity,
// negative durations are ErrNegativeTTL.
func NewFromConfig[K comparable, V any](cfg Config, opts ...Option) (*Cache[K, V], error) {
	combined := append([]Option{
		WithDefaultTTL(cfg.DefaultTTL),
		WithCleanupInterval(cfg.CleanupInterval),
	}, opts...)
	return New[K, V](cfg.Capacity, combined...)
}
