package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	RabbitMQ RabbitMQConfig `env:",prefix=RABBITMQ_"`
	Seed     SeedConfig     `env:",prefix=SEED_"`
	Env      string         `env:"ENV,default=development"`
	LogLevel string         `env:"LOG_LEVEL,default="`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host            string   `env:"HOST,default=localhost"`
	Port            string   `env:"PORT,default=5432"`
	User            string   `env:"USER,default=user_service"`
	Password        string   `env:"PASSWORD,default=user_service_password"`
	DBName          string   `env:"DB,default=user_service_db"`
	SSLMode         string   `env:"SSLMODE,default=disable"`
	AutoMigrate     bool     `env:"AUTO_MIGRATE,default=true"`
	MaxOpenConns    int      `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns    int      `env:"MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime Duration `env:"CONN_MAX_LIFETIME,default=5m"`
}

type RedisConfig struct {
	Host        string   `env:"HOST,default=localhost"`
	Port        string   `env:"PORT,default=6379"`
	Password    string   `env:"PASSWORD,default="`
	DB          int      `env:"DB,default=0"`
	PoolSize    int      `env:"POOL_SIZE,default=10"`
	DialTimeout Duration `env:"DIAL_TIMEOUT,default=5s"`
}

type JWTConfig struct {
	Secret             string   `env:"SECRET,required"`
	AccessTokenExpiry  Duration `env:"ACCESS_TOKEN_EXPIRY,default=15m"`
	RefreshTokenExpiry Duration `env:"REFRESH_TOKEN_EXPIRY,default=7d"`
}

type SecurityConfig struct {
	Argon2MemoryKiB   uint32   `env:"ARGON2_MEMORY_KIB,default=65536"`
	Argon2Iterations  uint32   `env:"ARGON2_ITERATIONS,default=3"`
	Argon2Parallelism uint8    `env:"ARGON2_PARALLELISM,default=4"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
	RateLimitEnabled  bool     `env:"RATE_LIMIT_ENABLED,default=true"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization,X-Request-ID"`
}

// RabbitMQConfig configures the status event broker. An empty URL disables it
// and status events are only logged.
type RabbitMQConfig struct {
	URL        string `env:"URL,default="`
	Exchange   string `env:"EXCHANGE,default=users"`
	Queue      string `env:"QUEUE,default=user-status-changed"`
	RoutingKey string `env:"ROUTING_KEY,default=user.status.changed"`
}

type SeedConfig struct {
	OnStart         bool   `env:"ON_START,default=false"`
	AdminPassword   string `env:"ADMIN_PASSWORD,default=admin"`
	DefaultPassword string `env:"DEFAULT_PASSWORD,default=123456"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// URL returns the connection string in URL form, as golang-migrate expects it
func (p PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     p.DBName,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Enabled reports whether a broker URL is configured
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Validate JWT secret length
	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if config.Security.Argon2Iterations == 0 || config.Security.Argon2Parallelism == 0 {
		return nil, fmt.Errorf("ARGON2_ITERATIONS and ARGON2_PARALLELISM must be positive")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
