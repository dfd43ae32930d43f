package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Used only outside production when JWT_SECRET is unset.
const devJWTSecret = "notekeeper-dev-secret-do-not-use-in-production"

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Google    GoogleConfig
	SMTP      SMTPConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	FrontendURL        string
	Environment        string
	LogFilePath        string
	EventLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	NoteEventsTopic    string
}

type DatabaseConfig struct {
	Connection  string
	AutoMigrate bool
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (g GoogleConfig) Enabled() bool {
	return g.ClientID != ""
}

func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// Load reads .env (if present) and the process environment. It fails only when
// the configuration would be unsafe to run with.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			EventLogFilePath:   getEnv("EVENT_LOG_FILE_PATH", "logs/events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			NoteEventsTopic:    getEnv("NOTE_EVENTS_TOPIC", "NOTE_EVENTS"),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", ""),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			TokenTTL:   time.Duration(getEnvAsInt("JWT_TTL_HOURS", 168)) * time.Hour,
			BcryptCost: getEnvAsInt("BCRYPT_COST", 10),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:5000/api/auth/google/callback"),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Notekeeper"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingJWTSecret
		}
		log.Println("[WARN] JWT_SECRET not set, using development fallback secret")
		cfg.Auth.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
