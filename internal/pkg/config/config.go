package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory    = "memory"
	StoreRedis     = "redis"
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	BackendBaseURL string `env:"BACKEND_BASE_URL, default=http://localhost:5000/api"`
	StaticDir      string `env:"STATIC_DIR,       default=./web"`
	LoginPath      string `env:"LOGIN_PATH,       default=/login"`
	HomePath       string `env:"HOME_PATH,        default=/"`

	Session  SessionConfig
	BlogRepo BlogConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
}

type SessionConfig struct {
	Store  string        `env:"SESSION_STORE,  default=memory"`
	Cookie string        `env:"SESSION_COOKIE, default=portal_session"`
	TTL    time.Duration `env:"SESSION_TTL,    default=168h"`
}

type BlogConfig struct {
	Store string `env:"BLOG_STORE, default=firestore"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hospital_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Validate rejects unknown store selectors.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("config: SESSION_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.Session.Store)
	}
	switch c.BlogRepo.Store {
	case StoreFirestore, StoreMongo:
	default:
		return fmt.Errorf("config: BLOG_STORE must be %q or %q, got %q", StoreFirestore, StoreMongo, c.BlogRepo.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom is Load with an explicit lookuper.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
