package transport

// Package transport is the outbound HTTP client for backend API calls.
// It attaches the bearer token held in session storage to every request,
// applies the fixed call timeout, and converts error responses into
// user-presentable gateway errors, preferring the server's message.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/siwaris/portal-api/internal/errors"
	"github.com/siwaris/portal-api/internal/ports"
)

// ErrUnauthorized is returned when the backend answers 401.
// The client has already invoked the OnUnauthorized hook by then.
var ErrUnauthorized = errors.New("unauthorized")

const defaultTimeout = 10 * time.Second

// Options groups dependencies for the transport client.
type Options struct {
	// BaseURL is the backend API base path, without trailing slash.
	BaseURL string

	// Timeout applies to each call. Defaults to 10s.
	Timeout time.Duration

	// Storage supplies the bearer token when one is present.
	// Optional; requests go out unauthenticated without it.
	Storage ports.SessionStorage

	// OnUnauthorized is invoked once per 401 response, before the error
	// is returned. Callers use it for the global forced-logout path.
	OnUnauthorized func(ctx context.Context)

	Logger *slog.Logger

	// HTTPClient overrides the underlying client (tests). Timeout still applies.
	HTTPClient *http.Client
}

// Client issues JSON requests against the backend API.
type Client struct {
	baseURL        string
	httpc          *http.Client
	storage        ports.SessionStorage
	onUnauthorized func(ctx context.Context)
	logger         *slog.Logger
}

// NewClient constructs a transport client from Options.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{}
	}
	httpc.Timeout = timeout

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpc:          httpc,
		storage:        opts.Storage,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
	}
}

// PostJSON issues a POST with a JSON body and decodes the JSON response.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
}

// GetJSON issues a GET and decodes the JSON response.
func (c *Client) GetJSON(ctx context.Context, path string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.attachToken(ctx, req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeGateway, "permintaan ke server gagal")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WarnContext(ctx, "close response body failed", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeGateway, "baca respons server gagal")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, apperrors.Wrap(ErrUnauthorized, apperrors.ErrCodeGateway, serverMessage(raw, "sesi tidak valid"))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, apperrors.Gateway(serverMessage(raw, fmt.Sprintf("server mengembalikan status %d", resp.StatusCode)))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeGateway, "respons server tidak dikenali")
	}
	return decoded, nil
}

// attachToken adds the bearer header when storage holds a token.
// Storage errors are logged, never fatal: the request simply goes out
// unauthenticated.
func (c *Client) attachToken(ctx context.Context, req *http.Request) {
	if c.storage == nil {
		return
	}
	token, err := c.storage.Get(ctx, "token")
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			c.logger.WarnContext(ctx, "read token from storage failed", "error", err)
		}
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// serverMessage extracts a user-presentable message from an error body.
// Preference order: JSON "message" field, raw body text, fallback.
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "{") {
		return text
	}
	return fallback
}
