// internal/ollama/client.go

// Package ollama wraps the Ollama HTTP API for model discovery and non-streaming generation.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/mwiater/ollamabench/internal/stats"
	"github.com/ollama/ollama/api"
)

// Client talks to a single Ollama server.
type Client struct {
	api     *api.Client
	baseURL string
	timeout time.Duration
}

// New builds a Client for cfg.URL using cfg's request timeout (zero means none).
func New(cfg appconfig.Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if raw == "" {
		raw = appconfig.DefaultURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url %q: %w", raw, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("ollama url %q must include scheme and host", raw)
	}

	return &Client{
		api:     api.NewClient(base, newHTTPClient(cfg.RequestTimeout())),
		baseURL: raw,
		timeout: cfg.RequestTimeout(),
	}, nil
}

// newHTTPClient keeps the default transport's proxy and dial settings and adds the
// overall request timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
}

// BaseURL returns the server address the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// withTimeout bounds ctx by the configured timeout, if any.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// ListModels returns the names of all models available on the server (/api/tags).
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	logging.LogRequest("out", c.baseURL, "", map[string]string{"method": http.MethodGet, "path": "/api/tags"})
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list models on %s: %w", c.baseURL, err)
	}
	logging.LogRequest("in", c.baseURL, "", resp)

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// RunningModels returns the set of models currently loaded in memory (/api/ps).
func (c *Client) RunningModels(ctx context.Context) (map[string]struct{}, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.ListRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get running models on %s: %w", c.baseURL, err)
	}

	running := make(map[string]struct{}, len(resp.Models))
	for _, m := range resp.Models {
		running[m.Name] = struct{}{}
	}
	return running, nil
}

// Generate issues a single non-streaming /api/generate request and returns the final
// response with its timing counters.
func (c *Client) Generate(ctx context.Context, model, prompt string) (stats.GenerateRecord, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: &stream,
	}
	logging.LogRequest("out", c.baseURL, model, req)

	var (
		final    api.GenerateResponse
		received bool
	)
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		final = resp
		received = true
		return nil
	})
	if err != nil {
		return stats.GenerateRecord{}, fmt.Errorf("generate with %s: %w", model, err)
	}
	if !received {
		return stats.GenerateRecord{}, fmt.Errorf("generate with %s: empty response", model)
	}
	logging.LogRequest("in", c.baseURL, model, final)

	return recordFromResponse(final), nil
}

func recordFromResponse(resp api.GenerateResponse) stats.GenerateRecord {
	return stats.GenerateRecord{
		Model:              resp.Model,
		CreatedAt:          resp.CreatedAt,
		Response:           resp.Response,
		Done:               resp.Done,
		TotalDuration:      int64(resp.TotalDuration),
		LoadDuration:       int64(resp.LoadDuration),
		PromptEvalCount:    resp.PromptEvalCount,
		PromptEvalDuration: int64(resp.PromptEvalDuration),
		EvalCount:          resp.EvalCount,
		EvalDuration:       int64(resp.EvalDuration),
	}
}
