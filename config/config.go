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

// Config holds the settings for both the backend service and the storefront
// client. Values come from the environment, optionally seeded from a .env file.
type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	DatabaseURL string
	APIKey      string

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// CORS Settings
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string

	// Seed the catalogue with sample products on boot
	SeedProducts bool

	// Storefront client settings
	BackendURL   string
	SessionDir   string
	PollInterval time.Duration
}

// LoadConfig reads .env files (when present) and the environment
func LoadConfig(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: could not load env file: %v", err)
	}

	return &Config{
		AppPort:     getEnv("PORT", "8080"),
		HOST:        getEnv("HOST", ""),
		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=gorm password=gorm dbname=gravel port=5432 sslmode=disable TimeZone=UTC"),
		APIKey:      os.Getenv("API_KEY"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getDuration("JWT_EXPIRES_IN", time.Hour),

		CORSAllowOrigins: getList("CORS_ALLOW_ORIGINS", []string{"*"}),
		CORSAllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		CORSAllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "apikey"},

		SeedProducts: getBool("SEED_PRODUCTS", false),

		BackendURL:   getEnv("BACKEND_URL", "http://localhost:8080"),
		SessionDir:   getEnv("SESSION_DIR", ".gravel-session"),
		PollInterval: getDuration("POLL_INTERVAL", 5*time.Second),
	}
}

// Validate checks the settings the backend service cannot run without
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the backend service
func (c *Config) Addr() string {
	return c.HOST + ":" + c.AppPort
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: invalid %s %q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
