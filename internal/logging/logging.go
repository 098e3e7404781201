// Package logging configures the process-wide zap logger and keeps the small
// LogEvent/LogWarn/LogRequest helpers used across the codebase.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = zap.NewNop()

	// consoleOutput receives human-readable log lines. Stdout is reserved for results.
	consoleOutput io.Writer = os.Stderr
)

// Init replaces the global logger. Lines go to stderr; when logPath is set they are also
// appended to that file as JSON. Debug enables request/response payload logging.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.AddSync(consoleOutput), level),
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(logFile), level))
	}

	logger = zap.New(zapcore.NewTee(cores...))
	return nil
}

// Close flushes the logger and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	_ = logger.Sync()
	logger = zap.NewNop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// L returns the current logger.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// LogEvent logs a formatted informational message.
func LogEvent(format string, args ...any) {
	L().Info(fmt.Sprintf(format, args...))
}

// LogWarn logs a formatted warning.
func LogWarn(format string, args ...any) {
	L().Warn(fmt.Sprintf(format, args...))
}

// LogRequest records a payload crossing the wire at debug level.
func LogRequest(direction, host, model string, payload any) {
	L().Debug("request",
		zap.String("direction", strings.ToUpper(strings.TrimSpace(direction))),
		zap.String("host", orUnknown(host)),
		zap.String("model", orUnknown(model)),
		zap.String("payload", formatPayload(payload)),
	)
}

func orUnknown(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "unknown"
	}
	return v
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
