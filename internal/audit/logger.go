package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fabric-control/fcc/internal/config"
	"github.com/fabric-control/fcc/internal/driver"
	"github.com/fabric-control/fcc/internal/xmlconfig"
)

// FileName is the name of the active audit file inside the audit directory.
const FileName = "audit.jsonl"

// Outcomes.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)

// Entry represents a single audit log entry.
type Entry struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"ts"`
	User      string                 `json:"user"`
	DeviceID  string                 `json:"deviceId"`
	Action    string                 `json:"action"`
	Params    map[string]interface{} `json:"params,omitempty"`
	Outcome   string                 `json:"outcome"`
	Code      string                 `json:"code"`
	LatencyMs int64                  `json:"latencyMs"`
}

// Logger appends audit entries to a rotating JSONL file.
type Logger struct {
	mu       sync.Mutex
	filePath string
	out      *lumberjack.Logger
	closed   bool
}

// NewLogger creates an audit logger in logDir with the default rotation settings.
func NewLogger(logDir string) (*Logger, error) {
	cfg := config.Defaults().Audit
	cfg.Dir = logDir
	return NewLoggerWithConfig(cfg)
}

// NewLoggerWithConfig creates an audit logger from the audit configuration.
func NewLoggerWithConfig(cfg config.AuditConfig) (*Logger, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(cfg.Dir, FileName)

	// lumberjack opens the file on first write; create it now so that
	// permission problems show up at startup.
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}
	_ = file.Close()

	return &Logger{
		filePath: filePath,
		out: &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
	}, nil
}

// LogControlAction records one action against a device. A nil err is a success.
func (l *Logger) LogControlAction(ctx context.Context, action, deviceID string, params map[string]interface{}, latency time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	l.writeEntry(Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		User:      UserFromContext(ctx),
		DeviceID:  deviceID,
		Action:    action,
		Params:    params,
		Outcome:   outcome,
		Code:      CodeFromError(err),
		LatencyMs: latency.Milliseconds(),
	})
}

func (l *Logger) writeEntry(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		slog.Warn("Audit entry dropped, logger closed", "action", entry.Action, "device", entry.DeviceID)
		return
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		slog.Error("Failed to marshal audit entry", "error", err)
		return
	}

	if _, err := l.out.Write(append(jsonData, '\n')); err != nil {
		slog.Error("Failed to write audit entry", "file", l.filePath, "error", err)
	}
}

// CodeFromError maps an error to its audit code.
func CodeFromError(err error) string {
	if err == nil {
		return "SUCCESS"
	}

	var cfgErr *xmlconfig.ConfigurationError
	var loadErr *driver.EntrypointLoadError

	switch {
	case errors.As(err, &cfgErr):
		return "INVALID_CONFIG"
	case errors.As(err, &loadErr):
		return "DRIVER_LOAD_FAILED"
	case errors.Is(err, config.ErrUnknownDevice):
		return "NOT_FOUND"
	case errors.Is(err, driver.ErrInvalidRange):
		return "INVALID_RANGE"
	case errors.Is(err, driver.ErrBusy):
		return "BUSY"
	case errors.Is(err, driver.ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// Close closes the audit file. Entries logged afterwards are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.out.Close()
}

// GetFilePath returns the path to the active audit log file.
func (l *Logger) GetFilePath() string {
	return l.filePath
}

// Rotate moves the active file to a timestamped backup and starts a new one.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("audit logger is closed")
	}
	if err := l.out.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}
	return nil
}
