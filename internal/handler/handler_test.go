package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2021-nbs/zealthy-exercise/internal/handler"
	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/repository"
	"github.com/2021-nbs/zealthy-exercise/internal/router"
	"github.com/2021-nbs/zealthy-exercise/internal/service"
	"github.com/2021-nbs/zealthy-exercise/internal/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	configSvc, err := service.NewConfigService(repository.NewConfigRepo(db))
	require.NoError(t, err)
	tokens := service.NewResumeTokens("test-secret", time.Hour)
	subSvc := service.NewSubmissionService(repository.NewSubmissionRepo(db), tokens)

	return router.New(handler.NewConfigHandler(configSvc), handler.NewSubmissionHandler(subSvc))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoute(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Resource not found")
}

func TestGetFormConfigDefault(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/form-config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg models.FieldConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Len(t, cfg.Fields, 3)
	assert.Equal(t, 3, cfg.Fields[models.FieldAboutYou].Panel)
}

func TestUpdateFormConfig(t *testing.T) {
	h := newTestRouter(t)

	candidate := models.DefaultFieldConfig()
	candidate.Fields[models.FieldBirthdate] = models.FieldSetting{Enabled: true, Panel: 3}
	rec := doJSON(t, h, http.MethodPost, "/api/update-form-config", candidate)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Configuration updated successfully")

	rec = doJSON(t, h, http.MethodGet, "/api/form-config", nil)
	var cfg models.FieldConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 3, cfg.Fields[models.FieldBirthdate].Panel)
}

func TestUpdateFormConfigRejectsUncoveredPanel(t *testing.T) {
	h := newTestRouter(t)

	candidate := models.DefaultFieldConfig()
	candidate.Fields[models.FieldAboutYou] = models.FieldSetting{Enabled: true, Panel: 2}
	rec := doJSON(t, h, http.MethodPost, "/api/update-form-config", candidate)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "panel 3 must have at least one enabled field")

	// Rejected update leaves the stored configuration untouched.
	rec = doJSON(t, h, http.MethodGet, "/api/form-config", nil)
	var cfg models.FieldConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 3, cfg.Fields[models.FieldAboutYou].Panel)
}

func TestSubmitFormRequiresCredentials(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodPost, "/api/submit-form",
		map[string]any{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username and password are required")
}

func TestSubmissionLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/submit-form", map[string]any{
		"username": "alice",
		"password": "hunter2",
		"address":  "1 Main St, Springfield, IL 62704",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Success     bool   `json:"success"`
		ID          string `json:"id"`
		ResumeToken string `json:"resumeToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.ResumeToken)

	// Fetch is masked.
	rec = doJSON(t, h, http.MethodGet, "/api/form-submission/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.MaskedSubmission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, models.PasswordMask, fetched.Password)
	assert.NotContains(t, rec.Body.String(), "hunter2")

	// Complete it.
	rec = doJSON(t, h, http.MethodPut, "/api/update-form/"+created.ID, map[string]any{
		"aboutYou":   "hello",
		"isComplete": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Listing shows the completed, masked row.
	rec = doJSON(t, h, http.MethodGet, "/api/form-submissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.MaskedSubmission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.True(t, listed[0].IsComplete)
	assert.Equal(t, models.PasswordMask, listed[0].Password)
	assert.Equal(t, "hello", listed[0].AboutYou)
}

func TestUpdateUnknownSubmission(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodPut, "/api/update-form/does-not-exist",
		map[string]any{"aboutYou": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUnknownSubmission(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/form-submission/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
