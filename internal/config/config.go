// Package config loads the tool's settings from CATAPULT_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/gabapcia/catapultcli/internal/announcer"
	"github.com/gabapcia/catapultcli/internal/pkg/catapult"
	"github.com/gabapcia/catapultcli/internal/pkg/logger"
	"github.com/gabapcia/catapultcli/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable, e.g. CATAPULT_ENDPOINT.
const Prefix = "CATAPULT"

const (
	AccountStoreStatic = "static"
	AccountStoreRedis  = "redis"
)

// Config is the full set of settings.
type Config struct {
	Endpoint       string               `envconfig:"ENDPOINT" default:"http://localhost:3000" validate:"required,http_url"`
	GenerationHash catapult.Hash        `envconfig:"GENERATION_HASH" default:"167FF7C1CC4C2D536EDB7497608001C3A7E9B91D90FAB2A4ECFE6424A489D58E"`
	Network        catapult.NetworkType `envconfig:"NETWORK" default:"MIJIN_TEST"`

	// EpochAdjustment is the network epoch as an offset from the Unix epoch.
	EpochAdjustment   time.Duration `envconfig:"EPOCH_ADJUSTMENT" default:"1459468800s"`
	CurrencyNamespace string        `envconfig:"CURRENCY_NAMESPACE" default:"cat.currency" validate:"required,namespace_name"`

	// MaxFee overrides the per-kind fee when non-zero.
	MaxFee uint64 `envconfig:"MAX_FEE"`

	// Discover replaces GenerationHash, Network, EpochAdjustment and the
	// currency mosaic with what the node reports.
	Discover bool `envconfig:"DISCOVER" default:"false"`

	AccountsFile string `envconfig:"ACCOUNTS_FILE"`
	AccountStore string `envconfig:"ACCOUNT_STORE" default:"static" validate:"oneof=static redis"`

	Redis Redis `envconfig:"REDIS"`

	Journal bool `envconfig:"JOURNAL" default:"false"`

	AnnouncePolicy announcer.Policy `envconfig:"ANNOUNCE_POLICY" default:"report" validate:"oneof=report strict"`
	HTTPTimeout    time.Duration    `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat logger.Format `envconfig:"LOG_FORMAT" default:"console" validate:"oneof=json console"`

	Telemetry   bool   `envconfig:"TELEMETRY" default:"false"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"catapultcli" validate:"required"`
}

// Redis holds the connection settings used by the redis account store and
// the journal.
type Redis struct {
	Addr       string        `envconfig:"ADDR" default:"localhost:6379" validate:"required,hostname_port"`
	Username   string        `envconfig:"USERNAME"`
	Password   string        `envconfig:"PASSWORD"`
	DB         int           `envconfig:"DB" default:"0" validate:"gte=0"`
	JournalTTL time.Duration `envconfig:"JOURNAL_TTL" default:"168h" validate:"gte=0"`
}

// NeedsRedis reports whether any component is backed by Redis.
func (c Config) NeedsRedis() bool {
	return c.AccountStore == AccountStoreRedis || c.Journal
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
