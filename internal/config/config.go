package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Бэкенды модели
const (
	BackendArtifact = "artifact"
	BackendHTTP     = "http"
	BackendGRPC     = "grpc"
)

// Config структура конфигурации приложения
type Config struct {
	Environment string
	Server      ServerConfig
	Model       ModelConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	Audit       AuditConfig
	Database    DatabaseConfig
}

// ServerConfig параметры HTTP сервера
type ServerConfig struct {
	Host string
	Port int
	// GRPCPort порт для раздачи загруженной модели по gRPC, 0 - выключено
	GRPCPort int
}

// ModelConfig параметры модели
type ModelConfig struct {
	Backend        string
	ArtifactPath   string
	BaseURL        string
	GRPCTarget     string
	Timeout        time.Duration
	Serialize      bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// LoggingConfig параметры логирования
type LoggingConfig struct {
	Level string
}

// CORSConfig параметры CORS
type CORSConfig struct {
	AllowedOrigins []string
}

// AuditConfig сохранение оценок в базе данных
type AuditConfig struct {
	Enabled bool
}

// DatabaseConfig конфигурация базы данных
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// GetDSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Addr возвращает адрес для прослушивания
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadDotEnv подгружает .env файл, если он есть; существующие переменные не перезаписываются
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.Environment = getEnv("ENVIRONMENT", "development")

	// Конфигурация сервера
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	if cfg.Server.Port, err = getEnvInt("SERVER_PORT", 8000); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	if cfg.Server.GRPCPort, err = getEnvInt("GRPC_PORT", 0); err != nil {
		return nil, fmt.Errorf("invalid GRPC_PORT: %w", err)
	}

	// Конфигурация модели
	cfg.Model.Backend = strings.ToLower(getEnv("MODEL_BACKEND", BackendArtifact))
	cfg.Model.ArtifactPath = getEnv("MODEL_PATH", "models/model.json")
	cfg.Model.BaseURL = getEnv("MODEL_API_BASE_URL", "http://localhost:9000")
	cfg.Model.GRPCTarget = getEnv("MODEL_GRPC_TARGET", "localhost:9001")
	timeoutSeconds, err := getEnvInt("MODEL_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_TIMEOUT_SECONDS: %w", err)
	}
	cfg.Model.Timeout = time.Duration(timeoutSeconds) * time.Second
	if cfg.Model.Serialize, err = getEnvBool("MODEL_SERIALIZE", false); err != nil {
		return nil, fmt.Errorf("invalid MODEL_SERIALIZE: %w", err)
	}
	if cfg.Model.RateLimitRPS, err = getEnvFloat("MODEL_RATE_LIMIT_RPS", 0); err != nil {
		return nil, fmt.Errorf("invalid MODEL_RATE_LIMIT_RPS: %w", err)
	}
	if cfg.Model.RateLimitBurst, err = getEnvInt("MODEL_RATE_LIMIT_BURST", 1); err != nil {
		return nil, fmt.Errorf("invalid MODEL_RATE_LIMIT_BURST: %w", err)
	}

	// Конфигурация логирования
	cfg.Logging.Level = getEnv("LOG_LEVEL", "info")

	cfg.CORS.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	if cfg.Audit.Enabled, err = getEnvBool("AUDIT_ENABLED", false); err != nil {
		return nil, fmt.Errorf("invalid AUDIT_ENABLED: %w", err)
	}

	// Конфигурация базы данных
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	if cfg.Database.Port, err = getEnvInt("DB_PORT", 5432); err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Name = getEnv("DB_NAME", "road_risk")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres123")
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", "disable")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case BackendArtifact:
		if c.Model.ArtifactPath == "" {
			return fmt.Errorf("MODEL_PATH is required for the artifact backend")
		}
	case BackendHTTP:
		if c.Model.BaseURL == "" {
			return fmt.Errorf("MODEL_API_BASE_URL is required for the http backend")
		}
	case BackendGRPC:
		if c.Model.GRPCTarget == "" {
			return fmt.Errorf("MODEL_GRPC_TARGET is required for the grpc backend")
		}
	default:
		return fmt.Errorf("unknown MODEL_BACKEND %q", c.Model.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("GRPC_PORT out of range: %d", c.Server.GRPCPort)
	}
	if c.Model.Timeout < 0 {
		return fmt.Errorf("MODEL_TIMEOUT_SECONDS must not be negative")
	}
	if c.Model.RateLimitRPS < 0 {
		return fmt.Errorf("MODEL_RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает int значение переменной окружения или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseFloat(value, 64)
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(value)
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
