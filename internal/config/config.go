package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPassword  = "sora0419"
	defaultSecretKey = "change_me_please"
)

// Config is built once at startup and passed to the components that need it.
type Config struct {
	Addr           string
	Password       string
	SecretKey      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	MaxUploadBytes int64
	MaxPixels      int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       slog.Level
	LogFormat      string
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file:", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function. Malformed numeric
// values are reported rather than replaced by defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Addr:           ":8080",
		Password:       defaultPassword,
		SecretKey:      defaultSecretKey,
		TokenTTL:       15 * time.Minute,
		AllowedOrigins: []string{"*"},
		MaxUploadBytes: 32 << 20,
		MaxPixels:      50_000_000,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   2 * time.Minute,
		LogLevel:       slog.LevelInfo,
		LogFormat:      "text",
	}

	if v := getenv("PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := getenv("SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Addr = ":" + v
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	minutes, err := positiveInt(getenv, "JWT_EXP_MINUTES")
	if err != nil {
		return nil, err
	}
	if minutes > 0 {
		cfg.TokenTTL = time.Duration(minutes) * time.Minute
	}
	mb, err := positiveInt(getenv, "MAX_UPLOAD_MB")
	if err != nil {
		return nil, err
	}
	if mb > 0 {
		cfg.MaxUploadBytes = int64(mb) << 20
	}
	px, err := positiveInt(getenv, "MAX_PIXELS")
	if err != nil {
		return nil, err
	}
	if px > 0 {
		cfg.MaxPixels = px
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		if v != "text" && v != "json" {
			return nil, fmt.Errorf("invalid LOG_FORMAT %q: want text or json", v)
		}
		cfg.LogFormat = v
	}

	if cfg.SecretKey == defaultSecretKey {
		log.Println("Warning: SECRET_KEY is not set, using the built-in default")
	}
	return cfg, nil
}

// positiveInt returns 0 when the variable is unset.
func positiveInt(getenv func(string) string, name string) (int, error) {
	v := getenv(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", name, v)
	}
	return n, nil
}

// NewLogger builds the structured logger described by cfg.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
