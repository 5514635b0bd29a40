// Package client is a Go client for the vtag HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/TimurManjosov/govtag/internal/engine"
	"github.com/TimurManjosov/govtag/internal/form"
	"github.com/TimurManjosov/govtag/internal/rules"
	"github.com/TimurManjosov/govtag/internal/store"
)

// Client is an HTTP client for the vtag API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error (status %d, %s): %s", e.Status, e.Code, e.Message)
}

// Field is the control context sent with rule and chain evaluations.
type Field struct {
	Role    string `json:"role,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

// ListRules returns the rule kinds the server supports and its engine version.
func (c *Client) ListRules(ctx context.Context) ([]rules.Kind, string, error) {
	var result struct {
		Version string       `json:"version"`
		Rules   []rules.Kind `json:"rules"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/rules", nil, false, &result); err != nil {
		return nil, "", err
	}
	return result.Rules, result.Version, nil
}

// EvaluateRule evaluates a single rule token remotely.
func (c *Client) EvaluateRule(ctx context.Context, rule, value string, field *Field) (bool, error) {
	body := map[string]any{"rule": rule, "value": value}
	if field != nil {
		body["field"] = field
	}
	var result struct {
		Passed bool `json:"passed"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/rules/evaluate", body, false, &result); err != nil {
		return false, err
	}
	return result.Passed, nil
}

// EvaluateChain evaluates a rule chain remotely.
func (c *Client) EvaluateChain(ctx context.Context, chain, value string, field *Field) (engine.Outcome, error) {
	body := map[string]any{"chain": chain, "value": value}
	if field != nil {
		body["field"] = field
	}
	var outcome engine.Outcome
	err := c.do(ctx, http.MethodPost, "/v1/chains/evaluate", body, false, &outcome)
	return outcome, err
}

// ListForms retrieves every form definition, ordered by name.
func (c *Client) ListForms(ctx context.Context) ([]store.Form, error) {
	var result struct {
		Forms map[string]store.Form `json:"forms"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/forms", nil, false, &result); err != nil {
		return nil, err
	}
	forms := make([]store.Form, 0, len(result.Forms))
	for _, f := range result.Forms {
		forms = append(forms, f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Name < forms[j].Name })
	return forms, nil
}

// GetForm retrieves a single form definition by name
func (c *Client) GetForm(ctx context.Context, name string) (*store.Form, error) {
	var f store.Form
	if err := c.do(ctx, http.MethodGet, "/v1/forms/"+url.PathEscape(name), nil, false, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpsertForm creates or replaces a form definition and returns the new
// catalogue ETag.
func (c *Client) UpsertForm(ctx context.Context, params store.UpsertParams) (string, error) {
	var result struct {
		ETag string `json:"etag"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/forms", params, true, &result); err != nil {
		return "", err
	}
	return result.ETag, nil
}

// DeleteForm deletes a form definition
func (c *Client) DeleteForm(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/v1/forms/"+url.PathEscape(name), nil, true, nil)
}

// ValidateForm validates a submission against a stored form.
func (c *Client) ValidateForm(ctx context.Context, name string, in form.Input) (form.Report, error) {
	var report form.Report
	err := c.do(ctx, http.MethodPost, "/v1/forms/"+url.PathEscape(name)+"/validate", in, false, &report)
	return report, err
}

// do sends body as JSON and decodes a 2xx response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body any, admin bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin && c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(bodyBytes, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(bodyBytes))
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
