package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env (if present), an optional config.yaml and environment
// overrides, in that order of increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	return build(v)
}

// LoadFile reads configuration from an explicit path plus environment overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}
	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	bindLegacyEnv(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Redis.Addr = strings.TrimPrefix(cfg.Redis.Addr, "redis://")

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors.allowed_origins", "*")
	v.SetDefault("server.cors.allowed_methods", "GET, POST, OPTIONS")
	v.SetDefault("server.cors.allowed_headers", "Content-Type, Authorization")

	v.SetDefault("store.driver", DriverMongo)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "screener")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "screener")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.max_idle", 5)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("reference.cache_ttl", "10m")
	v.SetDefault("reference.refresh_interval", "0s")

	v.SetDefault("recorder.queue_size", 256)
	v.SetDefault("recorder.workers", 2)
	v.SetDefault("recorder.write_timeout", "5s")

	v.SetDefault("screener.default_id", "abcd-123")
	v.SetDefault("screener.cache_ttl", "10m")

	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.token_ttl", "12h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindLegacyEnv keeps the deployment variable names used by existing compose files.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("redis.addr", "REDIS_URI", "REDIS_ADDR")
	_ = v.BindEnv("auth.username", "HOST_USERNAME", "AUTH_USERNAME")
	_ = v.BindEnv("auth.password", "HOST_PASSWORD", "AUTH_PASSWORD")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET", "AUTH_JWT_SECRET")
	_ = v.BindEnv("server.cors.allowed_origins", "CORS_ALLOWED_ORIGINS")
	_ = v.BindEnv("server.cors.allowed_methods", "CORS_ALLOWED_METHODS")
	_ = v.BindEnv("server.cors.allowed_headers", "CORS_ALLOWED_HEADERS")
}

func validate(cfg *Config) error {
	var problems []string

	switch cfg.Store.Driver {
	case DriverMongo:
		if cfg.Mongo.URI == "" {
			problems = append(problems, "mongo.uri is required")
		}
	case DriverPostgres:
		if cfg.Postgres.Host == "" || cfg.Postgres.Database == "" {
			problems = append(problems, "postgres.host and postgres.database are required")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver must be %q or %q, got %q", DriverMongo, DriverPostgres, cfg.Store.Driver))
	}

	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if cfg.Recorder.Workers < 1 {
		problems = append(problems, "recorder.workers must be at least 1")
	}
	if cfg.Recorder.QueueSize < 1 {
		problems = append(problems, "recorder.queue_size must be at least 1")
	}
	if cfg.Screener.DefaultID == "" {
		problems = append(problems, "screener.default_id is required")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
