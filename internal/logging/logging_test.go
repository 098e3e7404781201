package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := consoleOutput
	consoleOutput = &buf
	t.Cleanup(func() {
		_ = Close()
		consoleOutput = prev
	})
	return &buf
}

func TestInitAndLoggingToFile(t *testing.T) {
	console := captureConsole(t)
	logPath := filepath.Join(t.TempDir(), "nested", "ollamabench.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	LogEvent("hello %s", "world")
	LogWarn("careful %d", 3)
	L().Info("structured", zap.String("run_id", "abc"))
	if err := Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"hello world", "careful 3", `"run_id":"abc"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in log file, got: %s", want, content)
		}
	}
	if !strings.Contains(console.String(), "hello world") {
		t.Fatalf("expected console output, got: %s", console.String())
	}
}

func TestLogRequestOnlyAtDebug(t *testing.T) {
	console := captureConsole(t)

	if err := Init("", false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogRequest("out", "localhost", "phi3", map[string]any{"ok": true})
	if strings.Contains(console.String(), "payload") {
		t.Fatalf("expected request logging suppressed at info level, got: %s", console.String())
	}

	if err := Init("", true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogRequest(" out ", " ", "", map[string]any{"ok": true})
	out := console.String()
	for _, want := range []string{"OUT", "unknown", `{\"ok\":true}`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload([]byte{}); got != "[]" {
		t.Fatalf("empty byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
	if got := formatPayload(map[string]int{"n": 1}); got != `{"n":1}` {
		t.Fatalf("json payload: %s", got)
	}
}

func TestCloseWithoutInit(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	LogEvent("dropped")
}
