package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/localstore"
	"github.com/terraincognita07/syndic/internal/services"
)

const (
	DefaultPort        = "8080"
	DefaultQuotaBytes  = 5 * 1024 * 1024
	DefaultLanguage    = "fr"
	minSecretKeyLength = 32
)

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses an insecure placeholder")
	ErrSecretKeyTooShort    = errors.New("SECRET_KEY must be at least 32 characters")
)

var insecureSecretKeys = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
	"changeme":                                   true,
	"secret":                                     true,
}

type Config struct {
	Port             string
	SecretKey        string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	Namespace        string
	QuotaBytes       int64
	Location         *time.Location
	LogLevel         string
	DefaultLanguage  string
	AutoReminderSpec string
	CookieSecure     bool
}

// LoadDotEnv reads .env when present. A missing file is not an error.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Load reads the environment. SECRET_KEY is kept as given; ValidateForServe
// checks it, so one-shot commands can run without one.
func Load() (Config, error) {
	port, err := resolvePort()
	if err != nil {
		return Config{}, err
	}
	driver, err := resolveDriver()
	if err != nil {
		return Config{}, err
	}
	quota, err := resolveQuota()
	if err != nil {
		return Config{}, err
	}
	location, err := resolveLocation()
	if err != nil {
		return Config{}, err
	}
	cookieSecure, err := resolveBool("COOKIE_SECURE", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:             port,
		SecretKey:        strings.TrimSpace(os.Getenv("SECRET_KEY")),
		DBDriver:         driver,
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "syndic.db")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Namespace:        getEnv("SYNDIC_NAMESPACE", localstore.DefaultNamespace),
		QuotaBytes:       quota,
		Location:         location,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DefaultLanguage:  strings.ToLower(getEnv("DEFAULT_LANGUAGE", DefaultLanguage)),
		AutoReminderSpec: getEnv("AUTO_REMINDER_SPEC", services.DefaultAutoReminderSpec),
		CookieSecure:     cookieSecure,
	}
	if err := services.ValidateCronSpec(cfg.AutoReminderSpec); err != nil {
		return Config{}, fmt.Errorf("invalid AUTO_REMINDER_SPEC %q: %w", cfg.AutoReminderSpec, err)
	}
	if cfg.DBDriver == db.DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
	}
	return cfg, nil
}

func (cfg Config) ValidateForServe() error {
	return validateSecretKey(cfg.SecretKey)
}

// DatabaseTarget is the sqlite path or the postgres DSN, depending on the driver.
func (cfg Config) DatabaseTarget() string {
	if cfg.DBDriver == db.DriverPostgres {
		return cfg.DatabaseURL
	}
	return cfg.DBPath
}

func validateSecretKey(secret string) error {
	switch {
	case secret == "":
		return ErrSecretKeyMissing
	case insecureSecretKeys[strings.ToLower(secret)]:
		return ErrSecretKeyPlaceholder
	case len(secret) < minSecretKeyLength:
		return ErrSecretKeyTooShort
	}
	return nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveDriver() (string, error) {
	driver := strings.ToLower(getEnv("DB_DRIVER", db.DriverSQLite))
	switch driver {
	case db.DriverSQLite, db.DriverPostgres:
		return driver, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// resolveQuota accepts 0 for an unlimited store.
func resolveQuota() (int64, error) {
	raw := strings.TrimSpace(os.Getenv("STORAGE_QUOTA_BYTES"))
	if raw == "" {
		return DefaultQuotaBytes, nil
	}
	quota, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || quota < 0 {
		return 0, fmt.Errorf("invalid STORAGE_QUOTA_BYTES %q", raw)
	}
	return quota, nil
}

func resolveLocation() (*time.Location, error) {
	name := getEnv("TZ", "UTC")
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", name, err)
	}
	return location, nil
}

func resolveBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, raw)
	}
	return value, nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
