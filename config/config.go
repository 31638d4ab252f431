package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	Addr        string
	LogLevel    string
	TariffDB    string // optional read-only SQLite tariff database
	TariffEnv   string // optional .env style file with TARIFF_* values
	MaxUploadMB int
	GinMode     string
}

// Load reads .env (if present), then command line flags, then CDR_* environment overrides.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	flags := flag.NewFlagSet("cdr-billing", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "addr", ":8080", "HTTP listen address")
	flags.StringVar(&cfg.LogLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.TariffDB, "tariff-db", "", "SQLite database holding the initial tariff")
	flags.StringVar(&cfg.TariffEnv, "tariff-env", "", "File with TARIFF_* values layered under the environment")
	flags.IntVar(&cfg.MaxUploadMB, "max-upload-mb", 32, "Largest accepted CDR upload in MiB")
	flags.StringVar(&cfg.GinMode, "gin-mode", "release", "gin mode (debug, release, test)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg.Addr = getEnv("CDR_ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("CDR_LOG_LEVEL", cfg.LogLevel)
	cfg.TariffDB = getEnv("CDR_TARIFF_DB", cfg.TariffDB)
	cfg.TariffEnv = getEnv("CDR_TARIFF_ENV", cfg.TariffEnv)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	if v := os.Getenv("CDR_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxUploadMB = n
		}
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 32
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
