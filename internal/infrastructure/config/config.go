package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port        int    `env:"PORT,         default=3000"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	APIPrefix   string `env:"API_PREFIX,   default=api/v1"`
	CORSOrigins string `env:"CORS_ORIGINS, default=http://localhost:4200"`
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:4200"`

	JWT       JWTConfig
	Database  DatabaseConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type JWTConfig struct {
	Secret    string        `env:"JWT_SECRET, required"`
	ExpiresIn time.Duration `env:"JWT_EXPIRES_IN, default=1h"`
}

type DatabaseConfig struct {
	Driver         string `env:"DB_DRIVER,          default=postgres"`
	Host           string `env:"DB_HOST,            default=localhost"`
	Port           int    `env:"DB_PORT,            default=5432"`
	User           string `env:"DB_USERNAME,        default=postgres"`
	Password       string `env:"DB_PASSWORD"`
	Name           string `env:"DB_DATABASE,        default=base_api"`
	SSLMode        string `env:"DB_SSLMODE,         default=disable"`
	MaxConnections int    `env:"DB_MAX_CONNECTIONS, default=50"`
	AutoMigrate    bool   `env:"DB_AUTO_MIGRATE,    default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=base_api"`
}

// RedisConfig is optional; an empty address keeps rate limiting in-process.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// RateLimitConfig throttles POST /auth/login per client IP. The in-memory
// store is a token bucket refilling LoginPerMinute tokens per minute with
// LoginBurst capacity. With Redis each one-minute window admits the larger
// of the two.
type RateLimitConfig struct {
	LoginPerMinute int `env:"LOGIN_RATE_LIMIT, default=5"`
	LoginBurst     int `env:"LOGIN_RATE_BURST, default=5"`
}

type AdminConfig struct {
	Name     string `env:"ADMIN_NAME,     default=Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads a .env file from the working directory when present, then the
// process environment. Real environment variables win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith resolves configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, c.Database.Driver)
	}
	if c.JWT.ExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.Database.MaxConnections <= 0 {
		return errors.New("DB_MAX_CONNECTIONS must be positive")
	}
	return nil
}

// Prefix returns the API mount point with a leading slash and no trailing one.
func (c *Config) Prefix() string {
	p := strings.Trim(c.APIPrefix, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Origins splits CORS_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
