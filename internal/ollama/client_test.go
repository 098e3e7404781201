package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/ollamabench/internal/appconfig"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(appconfig.Config{URL: server.URL + "/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewValidatesURL(t *testing.T) {
	if _, err := New(appconfig.Config{URL: "localhost"}); err == nil {
		t.Fatalf("expected error for url without scheme")
	}
	client, err := New(appconfig.Config{})
	if err != nil {
		t.Fatalf("expected default url, got %v", err)
	}
	if client.BaseURL() != appconfig.DefaultURL {
		t.Fatalf("expected %s, got %s", appconfig.DefaultURL, client.BaseURL())
	}
}

func TestHTTPClientKeepsDefaultTransport(t *testing.T) {
	httpClient := newHTTPClient(30 * time.Second)
	if httpClient.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", httpClient.Timeout)
	}
	transport, ok := httpClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", httpClient.Transport)
	}
	if transport == http.DefaultTransport {
		t.Fatalf("expected a copy of the default transport")
	}
	if transport.Proxy == nil {
		t.Fatalf("expected proxy settings from the environment")
	}
	if transport.TLSHandshakeTimeout <= 0 || transport.DialContext == nil {
		t.Fatalf("expected default dial and TLS settings, got %+v", transport)
	}
	if newHTTPClient(0).Timeout != 0 {
		t.Fatalf("expected no timeout by default")
	}
}

func TestListModels(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/tags" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:8b","model":"llama3:8b"},{"name":"phi3:mini","model":"phi3:mini"}]}`))
	})

	names, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels: %v", err)
	}
	if strings.Join(names, ",") != "llama3:8b,phi3:mini" {
		t.Fatalf("unexpected models: %v", names)
	}
}

func TestListModelsHTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	if _, err := client.ListModels(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGenerateNonStreaming(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["model"] != "llama3:8b" || body["prompt"] != "Why is the sky blue?" {
			t.Fatalf("unexpected payload: %v", body)
		}
		if stream, ok := body["stream"].(bool); !ok || stream {
			t.Fatalf("expected stream=false, got %v", body["stream"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3:8b","created_at":"2024-05-01T10:00:00Z","response":"Rayleigh scattering.",` +
			`"done":true,"total_duration":15000000000,"prompt_eval_count":10,"prompt_eval_duration":2000000000,` +
			`"eval_count":100,"eval_duration":10000000000}` + "\n"))
	})

	rec, err := client.Generate(context.Background(), "llama3:8b", "Why is the sky blue?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !rec.Done || rec.Model != "llama3:8b" || rec.Response != "Rayleigh scattering." {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.TotalDuration != int64(15*time.Second) || rec.PromptEvalDuration != int64(2*time.Second) || rec.EvalDuration != int64(10*time.Second) {
		t.Fatalf("unexpected durations: %+v", rec)
	}
	if rec.PromptEvalCount != 10 || rec.EvalCount != 100 {
		t.Fatalf("unexpected counts: %+v", rec)
	}
	if rec.LoadDuration != 0 {
		t.Fatalf("expected missing load_duration to be 0, got %d", rec.LoadDuration)
	}
	if !rec.CreatedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", rec.CreatedAt)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}` + "\n"))
	})

	_, err := client.Generate(context.Background(), "nope", "hi")
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGenerateHonorsContext(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// The server only sees the client go away once the body has been read.
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := client.Generate(ctx, "m", "p")
	if err == nil {
		t.Fatalf("expected context error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Generate returned after %v, expected it to stop at the deadline", elapsed)
	}
	if !errors.Is(err, context.DeadlineExceeded) && !strings.Contains(err.Error(), "deadline") {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestDescribeModelsMarksLoaded(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/ps":
			_, _ = w.Write([]byte(`{"models":[{"name":"phi3:mini","model":"phi3:mini"}]}`))
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3:8b"},{"name":"phi3:mini"}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	lines, err := client.DescribeModels(context.Background())
	if err != nil {
		t.Fatalf("DescribeModels: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", lines)
	}
	if !strings.Contains(lines[0], "llama3:8b") || strings.Contains(lines[0], "CURRENTLY LOADED") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "phi3:mini (CURRENTLY LOADED)") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}
