package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Model    ModelConfig
	MQTT     MQTTConfig
	Log      LogConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port               int
	ShutdownTimeoutSec int
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int
	SQLitePath string
}

type RedisConfig struct {
	Host            string
	Port            int
	Password        string
	DB              int
	ConnectAttempts int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type CORSConfig struct {
	AllowedOrigins string
}

// ModelConfig selects the classifier backend. Backend is "local" (model file
// or embedded sample model) or "remote" (HTTP model server at URL).
type ModelConfig struct {
	Backend    string
	Path       string
	URL        string
	Version    string
	TimeoutSec int
}

// MQTTConfig enables sensor ingest when URL is set.
type MQTTConfig struct {
	URL   string
	Topic string
}

type LogConfig struct {
	Level  string
	Format string
}

type AuthConfig struct {
	UsersFile          string
	AshaDashboardURL   string
	HealthDashboardURL string
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

const defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,http://localhost:5174,http://localhost:8081"

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	for _, f := range []struct {
		key      string
		fallback int
		dest     *int
	}{
		{"SERVER_PORT", 8080, &cfg.Server.Port},
		{"SHUTDOWN_TIMEOUT_SEC", 10, &cfg.Server.ShutdownTimeoutSec},
		{"DB_PORT", 5432, &cfg.Database.Port},
		{"DB_MAX_CONNS", 10, &cfg.Database.MaxConns},
		{"REDIS_PORT", 6379, &cfg.Redis.Port},
		{"REDIS_DB", 0, &cfg.Redis.DB},
		{"REDIS_CONNECT_ATTEMPTS", 10, &cfg.Redis.ConnectAttempts},
		{"JWT_EXPIRY_HOURS", 24, &cfg.JWT.ExpiryHours},
		{"MODEL_TIMEOUT_SEC", 5, &cfg.Model.TimeoutSec},
	} {
		v, err := getIntEnv(f.key, f.fallback)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", f.key, err)
		}
		*f.dest = v
	}

	cfg.Database.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.User = getEnv("DB_USER", "healthtwin")
	cfg.Database.Password = getEnv("DB_PASSWORD", "healthtwin_dev_password")
	cfg.Database.Name = getEnv("DB_NAME", "healthtwin")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SQLitePath = getEnv("DB_SQLITE_PATH", "health_monitoring.db")

	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")

	cfg.JWT.Secret = getEnv("JWT_SECRET", "dev-secret-key-change-in-production")
	cfg.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)

	cfg.Model.Backend = getEnv("MODEL_BACKEND", "local")
	cfg.Model.Path = getEnv("MODEL_PATH", "")
	cfg.Model.URL = getEnv("MODEL_URL", "http://localhost:5001")
	cfg.Model.Version = getEnv("MODEL_VERSION", "1.0")

	cfg.MQTT.URL = getEnv("MQTT_URL", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "health/water/+")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Auth.UsersFile = getEnv("AUTH_USERS_FILE", "")
	cfg.Auth.AshaDashboardURL = getEnv("ASHA_DASHBOARD_URL", "http://localhost:5174")
	cfg.Auth.HealthDashboardURL = getEnv("HEALTH_DASHBOARD_URL", "http://localhost:5173")

	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want postgres or sqlite", cfg.Database.Driver)
	}
	if cfg.Model.Backend != "local" && cfg.Model.Backend != "remote" {
		return nil, fmt.Errorf("invalid MODEL_BACKEND %q: want local or remote", cfg.Model.Backend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
