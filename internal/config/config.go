package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	DB struct {
		DSN string // optional; empty disables the delivery record store
	}
	Backend struct {
		BaseURL string
	}
	App struct {
		Origin string
	}
	Notification struct {
		Icon      string
		Badge     string
		QueueSize int
	}
	Telegram struct {
		BotToken      string
		ChatID        int64
		RatePerSecond int
	}
	API struct {
		Port     string
		BasePath string
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	// Kafka settings
	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	// Database DSN
	cfg.DB.DSN = os.Getenv("DB_DSN")

	// Application backend and window origin
	cfg.Backend.BaseURL = os.Getenv("BACKEND_BASE_URL")
	cfg.App.Origin = os.Getenv("APP_ORIGIN")

	// Notification defaults
	cfg.Notification.Icon = os.Getenv("NOTIFICATION_ICON")
	cfg.Notification.Badge = os.Getenv("NOTIFICATION_BADGE")
	if qs, err := strconv.Atoi(os.Getenv("EVENT_QUEUE_SIZE")); err == nil {
		cfg.Notification.QueueSize = qs
	}

	// Telegram mirror (optional)
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}
	if r, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil {
		cfg.Telegram.RatePerSecond = r
	}

	// API settings
	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	// Logging settings
	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Apply defaults
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "product_expiry_push"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "nevexp-push-agent"
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:3000"
	}
	if cfg.App.Origin == "" {
		cfg.App.Origin = "http://localhost:5173"
	}
	if cfg.Notification.Icon == "" {
		cfg.Notification.Icon = "/icons/app-icon-192.png"
	}
	if cfg.Notification.Badge == "" {
		cfg.Notification.Badge = "/icons/badge-72.png"
	}
	if cfg.Notification.QueueSize == 0 {
		cfg.Notification.QueueSize = 64
	}
	if cfg.Telegram.RatePerSecond == 0 {
		cfg.Telegram.RatePerSecond = 1
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}
