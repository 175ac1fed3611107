package wizard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
)

// ErrNotFound is returned by the client when the server reports an unknown
// submission id.
var ErrNotFound = errors.New("not found")

// Backend is the server surface the state machine depends on. Tests swap
// in a fake; production uses Client.
type Backend interface {
	FetchConfig() (models.FieldConfig, error)
	CreateSubmission(in models.SubmissionInput) (id, resumeToken string, err error)
	UpdateSubmission(id string, in models.SubmissionInput) error
	FetchSubmission(id string) (models.MaskedSubmission, error)
}

// Client talks JSON to the onboarding API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) FetchConfig() (models.FieldConfig, error) {
	var cfg models.FieldConfig
	err := c.do(http.MethodGet, "/api/form-config", nil, &cfg)
	return cfg, err
}

// UpdateConfig saves an admin layout change. The server's validation
// message comes back verbatim in the returned error.
func (c *Client) UpdateConfig(cfg models.FieldConfig) error {
	return c.do(http.MethodPost, "/api/update-form-config", cfg, nil)
}

func (c *Client) CreateSubmission(in models.SubmissionInput) (string, string, error) {
	var out struct {
		ID          string `json:"id"`
		ResumeToken string `json:"resumeToken"`
	}
	if err := c.do(http.MethodPost, "/api/submit-form", in, &out); err != nil {
		return "", "", err
	}
	return out.ID, out.ResumeToken, nil
}

func (c *Client) UpdateSubmission(id string, in models.SubmissionInput) error {
	return c.do(http.MethodPut, "/api/update-form/"+id, in, nil)
}

func (c *Client) FetchSubmission(id string) (models.MaskedSubmission, error) {
	var sub models.MaskedSubmission
	err := c.do(http.MethodGet, "/api/form-submission/"+id, nil, &sub)
	return sub, err
}

func (c *Client) ListSubmissions() ([]models.MaskedSubmission, error) {
	var subs []models.MaskedSubmission
	err := c.do(http.MethodGet, "/api/form-submissions", nil, &subs)
	return subs, err
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		if failure.Message == "" {
			failure.Message = resp.Status
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, failure.Message)
		}
		return errors.New(failure.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
