package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Survey    SurveyConfig
	RateLimit RateLimitConfig
	LogLevel  slog.Level
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver   string // postgres | sqlite
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	MaxOpen  int
	MaxIdle  int
}

type SurveyConfig struct {
	// PublicBaseURL là tiền tố của link gửi cho khách hàng.
	PublicBaseURL string
	ExportDir     string
}

type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// Load đọc file .env (nếu có) rồi lấy cấu hình từ biến môi trường.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			GinMode:        getEnv("GIN_MODE", "debug"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:      os.Getenv("DB_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "encuestas"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "America/Bogota"),
			MaxOpen:  getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdle:  getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		},
		Survey: SurveyConfig{
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
			ExportDir:     getEnv("EXPORT_DIR", "./exports"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MIN", 30),
			Burst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo
	}
	return level
}
