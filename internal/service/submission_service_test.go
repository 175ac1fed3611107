package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/repository"
	"github.com/2021-nbs/zealthy-exercise/internal/service"
)

func strptr(s string) *string { return &s }

func newSubmissionService(t *testing.T) (*service.SubmissionService, *repository.SubmissionRepo) {
	t.Helper()
	repo := repository.NewSubmissionRepo(newTestDB(t))
	tokens := service.NewResumeTokens("test-secret", time.Hour)
	return service.NewSubmissionService(repo, tokens), repo
}

func TestCreateRequiresCredentials(t *testing.T) {
	svc, _ := newSubmissionService(t)

	tests := []struct {
		name string
		in   models.SubmissionInput
	}{
		{"blank password", models.SubmissionInput{Username: "alice"}},
		{"blank username", models.SubmissionInput{Password: "x"}},
		{"whitespace only", models.SubmissionInput{Username: "  ", Password: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.in)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestCreateHashesPasswordAndMasksReads(t *testing.T) {
	svc, repo := newSubmissionService(t)

	result, err := svc.Create(models.SubmissionInput{Username: "alice", Password: "hunter2"})
	require.NoError(t, err)
	require.NotEmpty(t, result.ID)
	require.NotEmpty(t, result.ResumeToken)

	// The stored credential is a verifiable bcrypt hash, never the input.
	row, err := repo.FindByID(result.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", row.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("hunter2")))

	masked, err := svc.Get(result.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PasswordMask, masked.Password)
	assert.False(t, masked.IsComplete)
}

func TestUpdateMergesAndCompletes(t *testing.T) {
	svc, _ := newSubmissionService(t)

	result, err := svc.Create(models.SubmissionInput{
		Username: "alice",
		Password: "x",
		Address:  strptr("1 Main St, Springfield, IL 62704"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(result.ID, models.SubmissionInput{
		AboutYou:   strptr("hello"),
		IsComplete: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "1 Main St, Springfield, IL 62704", updated.Address, "omitted fields keep their value")
	assert.Equal(t, "hello", updated.AboutYou)
	assert.True(t, updated.IsComplete)
	assert.Equal(t, models.PasswordMask, updated.Password)
}

func TestUpdateUnknownIDNotFound(t *testing.T) {
	svc, _ := newSubmissionService(t)

	_, err := svc.Update("missing", models.SubmissionInput{AboutYou: strptr("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateClearsBirthdateWithEmptyString(t *testing.T) {
	svc, _ := newSubmissionService(t)

	result, err := svc.Create(models.SubmissionInput{
		Username:  "alice",
		Password:  "x",
		Birthdate: strptr("1990-05-14"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(result.ID, models.SubmissionInput{Birthdate: strptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Birthdate)
}

func TestListOrdersByLastUpdatedDescending(t *testing.T) {
	svc, _ := newSubmissionService(t)

	first, err := svc.Create(models.SubmissionInput{Username: "alice", Password: "x"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(models.SubmissionInput{Username: "bob", Password: "y"})
	require.NoError(t, err)

	subs, err := svc.List()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, second.ID, subs[0].ID)
	assert.Equal(t, first.ID, subs[1].ID)
	for _, s := range subs {
		assert.Equal(t, models.PasswordMask, s.Password)
	}

	// Touching the older row moves it to the front.
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Update(first.ID, models.SubmissionInput{IsComplete: true})
	require.NoError(t, err)

	subs, err = svc.List()
	require.NoError(t, err)
	assert.Equal(t, first.ID, subs[0].ID)
	assert.True(t, subs[0].IsComplete)
}
