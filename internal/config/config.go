// Package config reads the server configuration from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-docwizard/pkg/orchestrator"
)

// Prefix is prepended to every environment variable name.
const Prefix = "DOCWIZARD_"

// Config holds the server settings.
type Config struct {
	Addr           string        `env:"ADDR" envDefault:":8080" validate:"required"`
	CatalogPath    string        `env:"CATALOG,required" validate:"required"`
	DictionaryPath string        `env:"DICTIONARY"`
	TemplateDir    string        `env:"TEMPLATE_DIR"`
	Policy         string        `env:"POLICY" envDefault:"advisory" validate:"oneof=advisory blocking"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn warning error"`
	LogJSON        bool          `env:"LOG_JSON" envDefault:"false"`
	SessionMaxAge  time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h" validate:"gte=0"`
	SessionIdle    time.Duration `env:"SESSION_IDLE" envDefault:"30m" validate:"gte=0"`
	CleanupPeriod  time.Duration `env:"CLEANUP_PERIOD" envDefault:"1m" validate:"gt=0"`
}

// Load reads the given .env files, skipping missing ones, then parses the
// process environment. Variables already set win over file values.
func Load(files ...string) (Config, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return parse(env.Options{Prefix: Prefix, Environment: env.ToMap(os.Environ())})
}

// FromMap parses settings from an explicit variable map.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ValidationPolicy returns the configured orchestrator policy.
func (c Config) ValidationPolicy() orchestrator.Policy {
	return orchestrator.ParsePolicy(c.Policy)
}

// Logger builds a logrus logger at the configured level.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if c.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
