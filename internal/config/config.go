package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every externally supplied setting. All values have local-dev
// defaults so the server can boot against docker-compose without a .env file.
type Config struct {
	AppName    string
	AppVersion string
	Env        string
	ServerPort string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecretKey        string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int

	AdminSecretKey string

	CORSOrigins []string

	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load reads .env when present and assembles the Config from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading from environment variables")
	}
	return &Config{
		AppName:             "echo-mcp-server",
		AppVersion:          getEnv("APP_VERSION", "1.0.0"),
		Env:                 getEnv("APP_ENV", "dev"),
		ServerPort:          getEnv("SERVER_PORT", "8000"),
		PostgresHost:        getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:        getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:          getEnv("POSTGRES_DB", "echo_mcp"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		JWTSecretKey:        getEnv("JWT_SECRET_KEY", "dev-secret-change-me"),
		AccessTokenTTLMin:   getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 30),
		RefreshTokenTTLDays: getEnvInt("REFRESH_TOKEN_TTL_DAYS", 7),
		AdminSecretKey:      getEnv("ADMIN_SECRET_KEY", "change-this-admin-secret"),
		CORSOrigins:         splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		RateLimitPerSecond:  getEnvInt("RATE_LIMIT_PER_SECOND", 20),
		RateLimitBurst:      getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

// PostgresDSN builds the gorm/pgx connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}

func getEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

func getEnvInt(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid integer env value, using default")
		return def
	}
	return n
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
