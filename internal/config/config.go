package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"factoryguard/console/internal/predict"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port           string
	Predict        predict.Config
	Form           FormSchema
	DBPath         string
	AllowedOrigins []string
	SessionTTL     time.Duration
	LogLevel       string
	LogFormat      string
}

const (
	defaultPort       = "5050"
	defaultPredictURL = "http://localhost:5000/predict"
	defaultDBPath     = "data/console.db"
)

// Load reads an optional .env file and then the environment. A malformed
// duration is reported rather than silently replaced.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("load .env")
	}

	cfg := Config{
		Port:      getEnv("PORT", defaultPort),
		Predict:   predict.Config{URL: getEnv("PREDICT_URL", defaultPredictURL)},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		DBPath:    defaultDBPath,
	}

	if path, ok := os.LookupEnv("CONSOLE_DB_PATH"); ok {
		cfg.DBPath = strings.TrimSpace(path)
	}

	if raw := strings.TrimSpace(os.Getenv("PREDICT_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("PREDICT_TIMEOUT: %w", err)
		}
		cfg.Predict.Timeout = d
	}
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	form, err := LoadFormSchema(os.Getenv("FORM_SCHEMA_PATH"))
	if err != nil {
		return Config{}, err
	}
	cfg.Form = form

	return cfg, nil
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func ConfigureLogging(level, format string) error {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(parsed)
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
