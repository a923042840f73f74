package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Slack      SlackConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds the organization-wide attendance settings.
type AttendanceConfig struct {
	ReferenceTimezone string
	StoreDriver       string
	ReaperRunAt       string
	ReaperMaxRetries  int
	PolicyFile        string
	SeedFile          string

	Location     *time.Location
	ReaperHour   int
	ReaperMinute int
	Policy       AttendancePolicy
}

// SlackConfig holds the ops channel settings. An empty token disables notifications.
type SlackConfig struct {
	BotToken       string
	InfoChannelID  string
	ErrorChannelID string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-presence"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	maxRetries, err := strconv.Atoi(getEnv("REAPER_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid REAPER_MAX_RETRIES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		ReferenceTimezone: getEnv("REFERENCE_TIMEZONE", "Asia/Kolkata"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		ReaperRunAt:       getEnv("REAPER_RUN_AT", "00:00"),
		ReaperMaxRetries:  maxRetries,
		PolicyFile:        getEnv("ATTENDANCE_POLICY_FILE", ""),
		SeedFile:          getEnv("MEMORY_SEED_FILE", ""),
	}

	config.Slack = SlackConfig{
		BotToken:       getEnv("SLACK_BOT_TOKEN", ""),
		InfoChannelID:  getEnv("SLACK_INFO_CHANNEL", ""),
		ErrorChannelID: getEnv("SLACK_ERROR_CHANNEL", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := config.resolve(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Attendance.StoreDriver {
	case StoreDriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.Attendance.StoreDriver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Attendance.ReaperMaxRetries < 0 {
		return fmt.Errorf("REAPER_MAX_RETRIES must not be negative")
	}
	return nil
}

// resolve derives the parsed attendance settings from their raw values.
func (c *Config) resolve() error {
	loc, err := time.LoadLocation(c.Attendance.ReferenceTimezone)
	if err != nil {
		return fmt.Errorf("invalid REFERENCE_TIMEZONE: %w", err)
	}
	c.Attendance.Location = loc

	hour, minute, ok := validator.IsValidClockTime(c.Attendance.ReaperRunAt)
	if !ok {
		return fmt.Errorf("invalid REAPER_RUN_AT %q: want HH:MM", c.Attendance.ReaperRunAt)
	}
	c.Attendance.ReaperHour = hour
	c.Attendance.ReaperMinute = minute

	policy := DefaultPolicy()
	if c.Attendance.PolicyFile != "" {
		policy, err = LoadPolicy(c.Attendance.PolicyFile)
		if err != nil {
			return err
		}
	}
	c.Attendance.Policy = policy
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
