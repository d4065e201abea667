package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
	StorageBolt   = "bolt"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GRPCPort int `env:"GRPC_PORT" envDefault:"8081"`
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// LedgerAddr is the gRPC target the gateway dials.
	LedgerAddr string `env:"LEDGER_ADDR" envDefault:"localhost:8081"`

	Storage  string `env:"LEDGER_STORAGE" envDefault:"json"`
	DataPath string `env:"LEDGER_DATA_PATH" envDefault:"database/data.json"`
	SeedPath string `env:"LEDGER_SEED_PATH"`
	Currency string `env:"LEDGER_CURRENCY" envDefault:"USD"`

	OTelEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Storage {
	case StorageJSON, StorageSQLite, StorageBolt:
	default:
		return Config{}, fmt.Errorf("unknown LEDGER_STORAGE %q (want json, sqlite or bolt)", cfg.Storage)
	}
	return cfg, nil
}
