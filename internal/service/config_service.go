package service

import (
	"sync"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/repository"
)

// ConfigService serves the field configuration from memory and writes
// accepted updates through to the durable single-row store. Reads never
// fail once the service is constructed; concurrent admin saves are
// last-write-wins.
type ConfigService struct {
	repo *repository.ConfigRepo

	mu      sync.RWMutex
	current models.FieldConfig
}

func NewConfigService(repo *repository.ConfigRepo) (*ConfigService, error) {
	cfg, err := repo.Load()
	if err != nil {
		return nil, err
	}
	return &ConfigService{repo: repo, current: cfg}, nil
}

func (s *ConfigService) Get() models.FieldConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates candidate and, if accepted, persists it and swaps the
// in-memory copy atomically. A rejected candidate leaves the prior
// configuration untouched.
func (s *ConfigService) Update(candidate models.FieldConfig) (models.FieldConfig, error) {
	if err := candidate.Validate(); err != nil {
		return s.Get(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Replace(candidate); err != nil {
		return s.current, err
	}
	s.current = candidate
	return candidate, nil
}
