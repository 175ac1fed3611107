package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
)

// ConfigRepo persists the field configuration as a single JSON row so the
// admin layout survives restarts.
type ConfigRepo struct {
	db *sql.DB
}

func NewConfigRepo(db *sql.DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// Load returns the stored configuration, seeding the default layout on
// first run.
func (r *ConfigRepo) Load() (models.FieldConfig, error) {
	var raw string
	err := r.db.QueryRow(`SELECT config FROM form_config WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		cfg := models.DefaultFieldConfig()
		if err := r.Replace(cfg); err != nil {
			return models.FieldConfig{}, fmt.Errorf("seed default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return models.FieldConfig{}, err
	}

	var cfg models.FieldConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return models.FieldConfig{}, fmt.Errorf("decode stored config: %w", err)
	}
	return cfg, nil
}

// Replace stores cfg wholesale as the single configuration row.
func (r *ConfigRepo) Replace(cfg models.FieldConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = r.db.Exec(`INSERT INTO form_config (id, config) VALUES (1, ?)
    ON CONFLICT (id) DO UPDATE SET config = excluded.config`, string(raw))
	return err
}
