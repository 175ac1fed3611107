package models

import "time"

// PasswordMask replaces the stored credential on every read path.
const PasswordMask = "*** MASKED ***"

// Submission is a stored onboarding form row. The password is kept only as
// a bcrypt hash and never serialized; callers hand out Masked copies.
type Submission struct {
	ID           string
	Username     string
	PasswordHash string
	Address      string
	Birthdate    *string
	AboutYou     string
	IsComplete   bool
	LastUpdated  time.Time
}

// MaskedSubmission is the external view of a row, with the credential
// replaced by a fixed placeholder.
type MaskedSubmission struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	Address     string    `json:"address,omitempty"`
	Birthdate   *string   `json:"birthdate"`
	AboutYou    string    `json:"about_you,omitempty"`
	IsComplete  bool      `json:"is_complete"`
	LastUpdated time.Time `json:"last_updated"`
}

func (s *Submission) Masked() MaskedSubmission {
	return MaskedSubmission{
		ID:          s.ID,
		Username:    s.Username,
		Password:    PasswordMask,
		Address:     s.Address,
		Birthdate:   s.Birthdate,
		AboutYou:    s.AboutYou,
		IsComplete:  s.IsComplete,
		LastUpdated: s.LastUpdated,
	}
}

// SubmissionInput carries client-supplied form values. Optional fields are
// pointers so an update only touches keys the request actually sent.
type SubmissionInput struct {
	Username   string  `json:"username"`
	Password   string  `json:"password"`
	Address    *string `json:"address"`
	Birthdate  *string `json:"birthdate"`
	AboutYou   *string `json:"aboutYou"`
	IsComplete bool    `json:"isComplete"`
}
