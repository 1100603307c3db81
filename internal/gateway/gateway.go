// Package gateway performs API calls in one of two modes. In mock mode
// every (method, path) pair is routed to a deterministic local handler; in
// live mode the equivalent HTTP request is sent to the configured API.
// The mode is read fresh from the config document on every call, so
// toggling it mid-session takes effect immediately.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/tempo/internal/model"
)

// Caller is the API surface domain operations depend on. Body is
// marshalled to JSON when non-nil.
type Caller interface {
	Call(ctx context.Context, method, path string, body any) (json.RawMessage, error)
}

// APIError is a failed live call: transport failure (Status 0) or a
// non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api request failed: %s", e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// UnroutedMockError is a mock-mode call for which no route is defined.
type UnroutedMockError struct {
	Method string
	Path   string
}

func (e *UnroutedMockError) Error() string {
	return fmt.Sprintf("no mock route for %s %s", e.Method, e.Path)
}

// Client implements Caller against the persisted configuration.
type Client struct {
	store   ConfigStore
	preview func(string)
	log     *zap.Logger
}

// ConfigStore is the slice of the document store the gateway needs.
type ConfigStore interface {
	LoadConfig() (model.Config, error)
	LoadCatalog() (model.Catalog, error)
	SaveCatalog(model.Catalog) error
}

// New returns a Client. preview receives the rendered curl equivalent of
// each request when show_curl_commands is enabled; pass nil to discard.
func New(store ConfigStore, preview func(string), log *zap.Logger) *Client {
	if preview == nil {
		preview = func(string) {}
	}
	return &Client{store: store, preview: preview, log: log}
}

// Call dispatches one request. The request preview, when enabled, is
// rendered before execution in both modes and has no behavioral effect.
func (c *Client) Call(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	cfg, err := c.store.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	if cfg.ShowCurlCommands {
		c.preview(curlCommand(method, cfg.APIURL+path, cfg.APIToken, payload))
	}
	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Bool("mock", cfg.MockMode),
	)

	if cfg.MockMode {
		return c.dispatchMock(method, path, payload)
	}
	return c.doLive(ctx, cfg, method, path, payload)
}

// curlCommand renders the fully-formed equivalent request for display.
func curlCommand(method, url, token string, payload []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "curl -X %s '%s'", method, url)
	b.WriteString(" -H 'Content-Type: application/json'")
	if token != "" {
		fmt.Fprintf(&b, " -H 'Authorization: Bearer %s'", token)
	}
	if len(payload) > 0 {
		fmt.Fprintf(&b, " -d '%s'", payload)
	}
	return b.String()
}

// doLive performs the real HTTP request. The bearer token rides on an
// oauth2 static token source so live calls share the configured identity.
func (c *Client) doLive(ctx context.Context, cfg model.Config, method, path string, payload []byte) (json.RawMessage, error) {
	if cfg.APIToken == "" {
		return nil, &APIError{Message: "no API token configured (Settings > Edit API settings)"}
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken}))
	httpClient.Timeout = 30 * time.Second

	var reqBody io.Reader
	if len(payload) > 0 {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, cfg.APIURL+path, reqBody)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if len(payload) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("reading response: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("api call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	return data, nil
}
