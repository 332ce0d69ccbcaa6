// Package backend is the client for the remote chatbot API: streaming chat,
// the conversation directory, transcription, synthesis, and the auth probe.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Flilipp/Chatbot/core"
)

// Config holds the backend API client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:8000/api".
	BaseURL string `json:"base_url"`
	// Timeout bounds every non-streaming request. The chat stream body is
	// exempt and governed only by context cancellation.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8000/api",
		Timeout: 15 * time.Second,
	}
}

// Client talks to the remote chatbot API.
type Client struct {
	baseURL      string
	httpClient   *http.Client // bounded timeout, non-streaming calls
	streamClient *http.Client // no timeout, chat stream only
	creds        core.CredentialProvider
	logger       *core.Logger
}

// NewClient creates a backend API client. The credential provider is
// injected; the client never reads ambient token state.
func NewClient(config Config, creds core.CredentialProvider, logger *core.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if creds == nil {
		creds = core.StaticToken("")
	}
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Client{
		baseURL:      strings.TrimRight(config.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: config.Timeout},
		streamClient: &http.Client{},
		creds:        creds,
		logger:       logger.With(map[string]any{"component": "backend"}),
	}
}

// newRequest builds a request with the bearer credential attached. A nil
// body means no payload; any other body is JSON-encoded.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend: resolve credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// doJSON executes a non-streaming request and decodes a 2xx JSON response
// into out. A nil out discards the body.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w: %w", req.Method, req.URL.Path, core.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response body: %w", err)
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend: decode response body: %w", err)
	}
	return nil
}

// remoteError converts a non-2xx response into a structured error, pulling
// the detail message from the body when one is present.
func (c *Client) remoteError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := sonic.Unmarshal(data, &payload); err == nil {
		detail = payload.Detail
		if detail == "" {
			detail = payload.Error
		}
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("backend: %w", core.ErrNotFound)
	}
	return &core.RemoteError{StatusCode: resp.StatusCode, Detail: detail}
}

// Me probes the auth collaborator and returns the authenticated email.
func (c *Client) Me(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		Email string `json:"email"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}
