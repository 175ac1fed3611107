package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResumeClaims tie a resume token to one submission and its owner.
type ResumeClaims struct {
	SubmissionID string `json:"submissionId"`
	Username     string `json:"username"`
	jwt.RegisteredClaims
}

// ResumeTokens issues and verifies the signed tokens clients keep in their
// local draft to restore an in-progress submission. Expiry bounds how long
// a remembered submission stays resumable.
type ResumeTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewResumeTokens(secret string, ttl time.Duration) *ResumeTokens {
	return &ResumeTokens{secret: []byte(secret), ttl: ttl}
}

func (t *ResumeTokens) Issue(submissionID, username string) (string, error) {
	claims := ResumeClaims{
		SubmissionID: submissionID,
		Username:     username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify returns the claims of a valid, unexpired token.
func (t *ResumeTokens) Verify(tokenStr string) (*ResumeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ResumeClaims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*ResumeClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
