package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable via STORE_BACKEND.
const (
	StoreBackendPostgres = "postgres"
	StoreBackendRedis    = "redis"
)

// Transfer backends selectable via TRANSFER_BACKEND.
const (
	TransferBackendS3      = "s3"
	TransferBackendGateway = "gateway"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Transfer TransferConfig
	Tickets  TicketConfig
	Logger   LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects the metadata store backend.
type StoreConfig struct {
	Backend string
	// Table is the metadata table name on Postgres and the key prefix on Redis.
	Table string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TransferConfig configures the object transfer service adapter.
type TransferConfig struct {
	Backend string

	// S3-compatible backend.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool

	// Signed-token gateway backend.
	GatewayBaseURL string
	TokenSecret    string
}

// TicketConfig bounds ticket issuance and authorization validity.
type TicketConfig struct {
	MaxFileSizeMB int
	URLTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "filedrop"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreBackendPostgres),
			Table:   getEnv("TICKETS_TABLE", "transfer_tickets"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Transfer: TransferConfig{
			Backend:        getEnv("TRANSFER_BACKEND", TransferBackendS3),
			Endpoint:       getEnv("S3_ENDPOINT", "s3.amazonaws.com"),
			Region:         getEnv("S3_REGION", "us-east-1"),
			Bucket:         os.Getenv("BUCKET_NAME"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY"),
			SecretKey:      os.Getenv("S3_SECRET_KEY"),
			UseSSL:         getEnvAsBool("S3_USE_SSL", true),
			GatewayBaseURL: getEnv("GATEWAY_BASE_URL", ""),
			TokenSecret:    getEnv("GATEWAY_TOKEN_SECRET", ""),
		},
		Tickets: TicketConfig{
			MaxFileSizeMB: getEnvAsInt("MAX_FILE_SIZE_MB", 10),
			URLTTLSeconds: getEnvAsInt("URL_TTL_SECONDS", 300),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Store.Backend != StoreBackendPostgres && cfg.Store.Backend != StoreBackendRedis {
		return nil, fmt.Errorf("unknown STORE_BACKEND: %q", cfg.Store.Backend)
	}
	if cfg.Transfer.Backend != TransferBackendS3 && cfg.Transfer.Backend != TransferBackendGateway {
		return nil, fmt.Errorf("unknown TRANSFER_BACKEND: %q", cfg.Transfer.Backend)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// MaxFileSizeBytes returns the upload size cap in bytes.
func (t TicketConfig) MaxFileSizeBytes() int64 {
	return int64(t.MaxFileSizeMB) * 1024 * 1024
}

// URLTTL returns the authorization validity window.
func (t TicketConfig) URLTTL() time.Duration {
	return time.Duration(t.URLTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
