// Package config carga la configuración del servidor desde variables de entorno.
package config

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Store: DB_DSN (Postgres) tiene prioridad sobre SQLITE_PATH; sin ninguno, memoria.
	DBDSN      string `env:"DB_DSN"`
	SQLitePath string `env:"SQLITE_PATH"`

	StakeAmount   uint64 `env:"STAKE_AMOUNT" envDefault:"500"`
	MaxCreatureID uint32 `env:"MAX_CREATURE_ID" envDefault:"4294967295"`

	// Ledger: remoto si LEDGER_URL está definido; si no, en memoria con DEV_BALANCES.
	LedgerURL    string            `env:"LEDGER_URL"`
	LedgerAPIKey string            `env:"LEDGER_API_KEY"`
	DevBalances  map[string]uint64 `env:"DEV_BALANCES" envKeyValSeparator:":"`

	// RandomSeed en hex; vacío => seed aleatorio por proceso.
	RandomSeed string `env:"RANDOM_SEED"`

	// Auth: verifier remoto si AUTH_URL está definido; si no, modo dev (X-Debug-Account-ID).
	AuthURL      string        `env:"AUTH_URL"`
	AuthAPIKey   string        `env:"AUTH_API_KEY"`
	AuthCacheTTL time.Duration `env:"AUTH_CACHE_TTL" envDefault:"2m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"creature-registry"`

	// TraceExporter: none | stdout.
	TraceExporter string `env:"TRACE_EXPORTER" envDefault:"none"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv carga la configuración desde el entorno del proceso.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse es como ParseEnv pero con un entorno explícito (tests).
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.MaxCreatureID == 0 {
		return fmt.Errorf("MAX_CREATURE_ID must be greater than zero")
	}
	if c.StakeAmount == 0 {
		return fmt.Errorf("STAKE_AMOUNT must be greater than zero")
	}
	if (c.LedgerURL == "") != (c.LedgerAPIKey == "") {
		return fmt.Errorf("LEDGER_URL and LEDGER_API_KEY must be set together")
	}
	if (c.AuthURL == "") != (c.AuthAPIKey == "") {
		return fmt.Errorf("AUTH_URL and AUTH_API_KEY must be set together")
	}
	switch strings.ToLower(strings.TrimSpace(c.TraceExporter)) {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("TRACE_EXPORTER must be none or stdout")
	}
	if _, err := c.Seed(); err != nil {
		return err
	}
	return nil
}

// Seed decodifica RANDOM_SEED. nil si no se configuró.
func (c Config) Seed() ([]byte, error) {
	s := strings.TrimSpace(c.RandomSeed)
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("RANDOM_SEED must be hex: %w", err)
	}
	if len(b) > 64 {
		return nil, fmt.Errorf("RANDOM_SEED must be at most 64 bytes")
	}
	return b, nil
}

// Addr es la dirección de escucha del servidor HTTP.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

// UnlimitedIDs indica que no se configuró un tope menor al natural del tipo.
func (c Config) UnlimitedIDs() bool {
	return c.MaxCreatureID == math.MaxUint32
}
