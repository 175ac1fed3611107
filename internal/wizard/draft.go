package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Value keys used in the draft blob. Address is kept both combined and as
// its decomposed parts; the combined form is what gets persisted.
const (
	keyUsername      = "username"
	keyPassword      = "password"
	keyAddress       = "address"
	keyStreetAddress = "streetAddress"
	keyCity          = "city"
	keyState         = "state"
	keyZipCode       = "zipCode"
	keyBirthdate     = "birthdate"
	keyAboutYou      = "aboutYou"
)

// Draft is the client-local wizard state: the in-progress field values plus
// everything needed to resume later. All of it is cleared together on a
// successful final submit or an explicit restart.
type Draft struct {
	SubmissionID string            `json:"submissionId,omitempty"`
	Username     string            `json:"username,omitempty"`
	Step         int               `json:"step,omitempty"`
	Values       map[string]string `json:"values,omitempty"`
	ResumeToken  string            `json:"resumeToken,omitempty"`
}

// Empty reports whether the draft carries neither field values nor a
// remembered submission.
func (d Draft) Empty() bool {
	return len(d.Values) == 0 && d.SubmissionID == ""
}

type DraftStore interface {
	Load() (Draft, error)
	Save(Draft) error
	Clear() error
}

// FileDraftStore persists the draft as a single JSON file, the desktop
// analogue of browser local storage.
type FileDraftStore struct {
	path string
}

func NewFileDraftStore(path string) *FileDraftStore {
	return &FileDraftStore{path: path}
}

func (s *FileDraftStore) Load() (Draft, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Draft{}, nil
	}
	if err != nil {
		return Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}

func (s *FileDraftStore) Save(d Draft) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write draft: %w", err)
	}
	return nil
}

func (s *FileDraftStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
