package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config serena-data (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Classifier ClassifierConfig
	Webhook    WebhookConfig
	Twilio     TwilioConfig
}

// DatabaseConfig PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// ClassifierConfig external AI classification service settings
type ClassifierConfig struct {
	APIKey  string
	BaseURL string   // OpenAI-compatible endpoint
	Models  []string // ordered candidates: primary first, then fallbacks
}

// WebhookConfig inbound webhook settings
type WebhookConfig struct {
	VerifyToken string // shared secret for the GET verification handshake
}

// TwilioConfig outbound WhatsApp confirmation settings (optional)
type TwilioConfig struct {
	Enabled        bool
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
}

func Load() *Config {
	// .env is optional; real deployments use environment variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "serena")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Classifier.APIKey = getEnv("CLASSIFIER_API_KEY", "")
	cfg.Classifier.BaseURL = getEnv("CLASSIFIER_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	cfg.Classifier.Models = splitList(getEnv("CLASSIFIER_MODELS", "gemini-2.0-flash-lite,gemini-2.5-flash,gemini-2.5-pro"))

	cfg.Webhook.VerifyToken = getEnv("WHATSAPP_VERIFY_TOKEN", "")

	cfg.Twilio.Enabled = getEnv("TWILIO_ENABLED", "false") == "true"
	cfg.Twilio.AccountSID = getEnv("TWILIO_ACCOUNT_SID", "")
	cfg.Twilio.AuthToken = getEnv("TWILIO_AUTH_TOKEN", "")
	cfg.Twilio.WhatsAppNumber = getEnv("TWILIO_WHATSAPP_NUMBER", "")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
