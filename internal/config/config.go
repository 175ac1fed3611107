package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr     string        `env:"ONBOARD_ADDR" envDefault:":8080"`
	DBPath       string        `env:"ONBOARD_DB_PATH" envDefault:"onboarding.db"`
	GelfAddr     string        `env:"ONBOARD_GELF_ADDR"`
	ResumeSecret string        `env:"ONBOARD_RESUME_SECRET" envDefault:"onboarding-dev-secret-change-me"`
	ResumeTTL    time.Duration `env:"ONBOARD_RESUME_TTL" envDefault:"720h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
