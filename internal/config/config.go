package config

import (
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"erp_backoffice/pkg/utils"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins string
	RateLimit          string // limiter format, e.g. "100-M"
	MetricsPrefix      string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(utils.Getenv("REDIS_DB", "0"))
	accessTTL, err := time.ParseDuration(utils.Getenv("JWT_ACCESS_TTL", "15m"))
	if err != nil {
		accessTTL = 15 * time.Minute
	}
	refreshTTL, err := time.ParseDuration(utils.Getenv("JWT_REFRESH_TTL", "168h"))
	if err != nil {
		refreshTTL = 7 * 24 * time.Hour
	}

	return Config{
		Server: ServerConfig{
			Port:               utils.Getenv("PORT", "8080"),
			CORSAllowedOrigins: utils.Getenv("CORS_ALLOWED_ORIGINS", ""),
			RateLimit:          utils.Getenv("RATE_LIMIT", "300-M"),
			MetricsPrefix:      utils.Getenv("METRICS_PREFIX", "erp_backoffice"),
		},
		DB: DBConfig{
			Host:     utils.Getenv("DB_HOST", "localhost"),
			Port:     utils.Getenv("DB_PORT", "5432"),
			User:     utils.Getenv("DB_USER", "erp_user"),
			Password: utils.Getenv("DB_PASSWORD", "erp_password"),
			Name:     utils.Getenv("DB_NAME", "erp_backoffice_db"),
			SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     utils.Getenv("REDIS_HOST", "localhost"),
			Port:     utils.Getenv("REDIS_PORT", "6379"),
			Password: utils.Getenv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:       utils.Getenv("JWT_SECRET", "change-me-in-production"),
			AccessTokenTTL:  accessTTL,
			RefreshTokenTTL: refreshTTL,
		},
	}
}
