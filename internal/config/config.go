package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/eldtechnologies/maven/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Telegram front-end
	BotToken string

	// Gmail transport
	GmailCredentials string // OAuth client secrets file
	GmailToken       string // stored user token file
	BotAddress       string // From address on outbound mail

	// Expert panel (closed allow-list, fixed at process start)
	Experts []models.Expert

	// Durable store
	Store       string // "ledger", "sqlite" or "postgres"
	LedgerPath  string
	SQLitePath  string
	DatabaseURL string
	RedisURL    string

	// Scheduling and thresholds
	PollInterval     time.Duration // reply correlator cadence
	ReminderInterval time.Duration // reminder sweeper cadence
	ReminderAfter    time.Duration // staleness threshold for a follow-up
	MinAnswerLen     int           // shorter reply bodies are treated as noise
	MailTimeout      time.Duration // bound on every mail transport call
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		BotToken:         os.Getenv("BOT_TOKEN"),
		GmailCredentials: getEnv("GMAIL_CREDENTIALS", "credentials/credentials.json"),
		GmailToken:       getEnv("GMAIL_TOKEN", "token.json"),
		BotAddress:       os.Getenv("BOT_ADDRESS"),
		Store:            getEnv("STORE", "ledger"),
		LedgerPath:       getEnv("LEDGER_PATH", "questions.csv"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/maven.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		PollInterval:     getDuration("POLL_INTERVAL", time.Minute),
		ReminderInterval: getDuration("REMINDER_INTERVAL", 10*time.Minute),
		ReminderAfter:    getDuration("REMINDER_AFTER", 24*time.Hour),
		MinAnswerLen:     getInt("MIN_ANSWER_LEN", 10),
		MailTimeout:      getDuration("MAIL_TIMEOUT", 30*time.Second),
	}

	experts, err := loadExperts()
	if err != nil {
		panic("invalid expert configuration: " + err.Error())
	}
	cfg.Experts = experts

	// In production, require the front-end token and at least one expert
	if cfg.Env == "production" {
		if cfg.BotToken == "" {
			panic("BOT_TOKEN is required in production")
		}
		if cfg.BotAddress == "" {
			panic("BOT_ADDRESS is required in production")
		}
		if len(cfg.Experts) == 0 {
			panic("EXPERTS or EXPERTS_FILE is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// loadExperts reads the expert panel from EXPERTS (inline JSON) or
// EXPERTS_FILE (path to a JSON file). Inline JSON wins when both are set.
func loadExperts() ([]models.Expert, error) {
	raw := os.Getenv("EXPERTS")
	if raw == "" {
		path := os.Getenv("EXPERTS_FILE")
		if path == "" {
			return nil, nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}
	return ParseExperts(raw)
}

// ParseExperts decodes a JSON array of panel members and rejects entries
// without an address.
func ParseExperts(raw string) ([]models.Expert, error) {
	var experts []models.Expert
	if err := json.Unmarshal([]byte(raw), &experts); err != nil {
		return nil, err
	}
	for i, e := range experts {
		if e.Address == "" {
			return nil, fmt.Errorf("expert %d has no address", i)
		}
	}
	return experts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
