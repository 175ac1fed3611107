package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/repository"
)

// ErrInvalidInput marks a request rejected for missing or malformed
// required data.
var ErrInvalidInput = errors.New("invalid input")

type SubmissionService struct {
	subs   *repository.SubmissionRepo
	tokens *ResumeTokens
}

func NewSubmissionService(subs *repository.SubmissionRepo, tokens *ResumeTokens) *SubmissionService {
	return &SubmissionService{subs: subs, tokens: tokens}
}

// CreateResult is returned on a successful create: the store-assigned id
// plus a signed resume token the client may keep to restore progress later.
type CreateResult struct {
	ID          string
	ResumeToken string
}

// Create stores a new submission. Username and password are required; the
// password is bcrypt-hashed before it touches the store.
func (s *SubmissionService) Create(in models.SubmissionInput) (*CreateResult, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	sub := &models.Submission{
		Username:     username,
		PasswordHash: string(hash),
		IsComplete:   in.IsComplete,
	}
	applyOptional(sub, in)

	id, err := s.subs.Create(sub)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(id, username)
	if err != nil {
		return nil, fmt.Errorf("issue resume token: %w", err)
	}
	return &CreateResult{ID: id, ResumeToken: token}, nil
}

// Update merges the provided fields into an existing row. Credentials may
// be omitted; a supplied password is ignored, matching the create-only
// credential contract.
func (s *SubmissionService) Update(id string, in models.SubmissionInput) (models.MaskedSubmission, error) {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		return models.MaskedSubmission{}, err
	}

	if username := strings.TrimSpace(in.Username); username != "" {
		sub.Username = username
	}
	sub.IsComplete = in.IsComplete
	applyOptional(sub, in)

	if err := s.subs.Update(sub); err != nil {
		return models.MaskedSubmission{}, err
	}
	return sub.Masked(), nil
}

func (s *SubmissionService) Get(id string) (models.MaskedSubmission, error) {
	sub, err := s.subs.FindByID(id)
	if err != nil {
		return models.MaskedSubmission{}, err
	}
	return sub.Masked(), nil
}

// List returns all submissions, newest first, each password-masked.
func (s *SubmissionService) List() ([]models.MaskedSubmission, error) {
	subs, err := s.subs.FindAll()
	if err != nil {
		return nil, err
	}
	masked := make([]models.MaskedSubmission, 0, len(subs))
	for i := range subs {
		masked = append(masked, subs[i].Masked())
	}
	return masked, nil
}

// applyOptional copies only the fields the request actually sent. An empty
// birthdate is stored as NULL rather than an empty string.
func applyOptional(sub *models.Submission, in models.SubmissionInput) {
	if in.Address != nil {
		sub.Address = *in.Address
	}
	if in.Birthdate != nil {
		if *in.Birthdate == "" {
			sub.Birthdate = nil
		} else {
			sub.Birthdate = in.Birthdate
		}
	}
	if in.AboutYou != nil {
		sub.AboutYou = *in.AboutYou
	}
}
