package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	JWTSecret string `env:"JWT_SECRET"`

	// SessionTTL bounds how long an admin session stays valid without a
	// fresh login.
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	// AuthorizedEmails are operator addresses granted admin access even when
	// the storefront account carries a plain user role. Comma separated.
	AuthorizedEmails []string `env:"AUTHORIZED_EMAILS"`

	Storefront StorefrontConfig
	Socket     SocketConfig
	Redis      RedisConfig
}

// StorefrontConfig points at the storefront API the console manages.
type StorefrontConfig struct {
	BaseURL string        `env:"STOREFRONT_URL,     default=http://localhost:3000/api"`
	Timeout time.Duration `env:"STOREFRONT_TIMEOUT, default=10s"`
}

// SocketConfig points at the realtime endpoint used for admin broadcasts.
// An empty URL disables the broadcast panel.
type SocketConfig struct {
	URL string `env:"SOCKET_URL"`
}

type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR,         default=localhost:6379"`
	DB          int           `env:"REDIS_DB,           default=0"`
	PoolSize    int           `env:"REDIS_POOL_SIZE,    default=10"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
