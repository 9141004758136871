package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config holds every runtime setting. Defaults reproduce the exporter's fixed
// behaviour, so an empty environment yields the canonical 0.0.0.0:9100 server.
type Config struct {
	Host      string `env:"HOST,      default=0.0.0.0"     validate:"omitempty,ip"`
	Port      int    `env:"PORT,      default=9100"        validate:"min=1,max=65535"`
	Env       string `env:"ENV,       default=development" validate:"required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"        validate:"oneof=trace debug info warn warning error"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s" validate:"gt=0s"`

	Sampler SamplerConfig
}

type SamplerConfig struct {
	// StaleAfter is how old the latest sample may be before /health/ready
	// reports degraded. It must exceed the longest sampler interval.
	StaleAfter time.Duration `env:"SAMPLER_STALE_AFTER, default=45s" validate:"gt=15s"`
	// Seed fixes the random source; 0 seeds from the clock.
	Seed uint64 `env:"SAMPLER_SEED, default=0"`
}

// Addr is the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// MustLoad is Load for process start-up: a bad environment is fatal.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("config: validate: %w", err)
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, "; "))
}
