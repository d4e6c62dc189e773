// Package config defines environment configuration structs and loaders.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	IBGEEnvConfig
	SidraEnvConfig
	StoreEnvConfig
	ServerEnvConfig
	ClientEnvConfig
	PipelineEnvConfig
}

func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IBGEEnvConfig targets the IBGE servicodados API.
type IBGEEnvConfig struct {
	IBGEBaseURL string `env:"IBGE_BASE_URL" envDefault:"https://servicodados.ibge.gov.br/api/v1"`
}

// SidraEnvConfig targets the SIDRA aggregated-data API.
type SidraEnvConfig struct {
	SidraBaseURL string `env:"SIDRA_BASE_URL" envDefault:"https://apisidra.ibge.gov.br"`
	SidraTable   int    `env:"SIDRA_TABLE" envDefault:"6579"`
	SidraLevel   string `env:"SIDRA_LEVEL" envDefault:"n6"`
	SidraPeriod  string `env:"SIDRA_PERIOD" envDefault:"last"`
	// SidraMinRows is the row count below which a discovered table is
	// rejected as not municipality-level.
	SidraMinRows int `env:"SIDRA_MIN_ROWS" envDefault:"4000"`
}

// StoreEnvConfig locates the sqlite database file.
type StoreEnvConfig struct {
	DBPath string `env:"VULNIDX_DB" envDefault:"vulnidx.db"`
}

// ServerEnvConfig configures the dashboard server.
type ServerEnvConfig struct {
	Address       string `env:"SERVER_ADDRESS" envDefault:"127.0.0.1"`
	Port          int    `env:"SERVER_PORT" envDefault:"8080"`
	BodySizeLimit int    `env:"SERVER_BODY_LIMIT" envDefault:"1048576"`
}

// ClientEnvConfig configures outbound HTTP clients.
type ClientEnvConfig struct {
	ClientTimeout time.Duration `env:"CLIENT_TIMEOUT" envDefault:"30s"`
	RetryMax      int           `env:"CLIENT_RETRY_MAX" envDefault:"5"`
	RetryWaitMin  time.Duration `env:"CLIENT_RETRY_WAIT_MIN" envDefault:"500ms"`
	RetryWaitMax  time.Duration `env:"CLIENT_RETRY_WAIT_MAX" envDefault:"20s"`
}

// PipelineEnvConfig configures pipeline runtime behavior.
type PipelineEnvConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
}
