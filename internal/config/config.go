package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Chat     ChatConfig
	Speech   SpeechConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ChatLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type ChatConfig struct {
	CollaboratorTimeout time.Duration
	OneTimeCodeTTL      time.Duration
	MaxCodeAttempts     int
	SessionTTL          time.Duration
	MailDomain          string
	CommonAbendCodes    []string
	LexiconFile         string // optional YAML overrides for small talk and reset phrases
}

type SpeechConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ChatLogFilePath:    getEnv("CHAT_LOG_FILE_PATH", "logs/chat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       strings.ToLower(getEnv("SESSION_STORE", "memory")),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Aspire Support"),
		},
		Chat: ChatConfig{
			CollaboratorTimeout: getEnvAsDuration("CHAT_COLLABORATOR_TIMEOUT", 5*time.Second),
			OneTimeCodeTTL:      getEnvAsDuration("OTP_TTL", 10*time.Minute),
			MaxCodeAttempts:     getEnvAsInt("OTP_MAX_ATTEMPTS", 0),
			SessionTTL:          getEnvAsDuration("CHAT_SESSION_TTL", time.Hour),
			MailDomain:          getEnv("MAIL_DOMAIN", "keybank.com"),
			CommonAbendCodes:    getEnvAsList("COMMON_ABEND_CODES", []string{"S0C4", "S0C7", "S322", "S806", "S013"}),
			LexiconFile:         getEnv("CHAT_LEXICON_FILE", ""),
		},
		Speech: SpeechConfig{
			ServiceURL: getEnv("SPEECH_SERVICE_URL", "http://localhost:2700/recognize"),
			Timeout:    getEnvAsDuration("SPEECH_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsList splits a comma separated value, dropping blanks.
func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
