// Package logging provides structured JSON logging with trace IDs.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level represents logging severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type contextKey string

const traceIDKey contextKey = "trace_id"

// WithTraceID returns a context tagged with the given trace ID, minting a
// fresh one when empty.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID extracts the trace ID from the context, empty when absent.
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// entry is the wire shape of a single log line.
type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger writes structured JSON log lines. Fields are alternating key/value
// pairs, matching the slog calling convention.
type Logger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     Level
	component string
	traceID   string
}

// New creates a logger writing to stderr at the given level.
func New(level Level) *Logger {
	return &Logger{mu: &sync.Mutex{}, out: os.Stderr, level: level}
}

// NewWithOutput creates a logger writing to the given writer. Used by tests.
func NewWithOutput(level Level, out io.Writer) *Logger {
	return &Logger{mu: &sync.Mutex{}, out: out, level: level}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	clone := *l
	clone.component = component
	return &clone
}

// WithContext returns a logger carrying the context's trace ID.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	clone := *l
	clone.traceID = TraceID(ctx)
	return &clone
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(DebugLevel, msg, fields) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log(InfoLevel, msg, fields) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log(WarnLevel, msg, fields) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(ErrorLevel, msg, fields) }

func (l *Logger) log(level Level, msg string, kv []interface{}) {
	if level < l.level {
		return
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     levelName(level),
		Message:   msg,
		Component: l.component,
		TraceID:   l.traceID,
	}
	if len(kv) > 0 {
		e.Fields = make(map[string]interface{}, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				key = fmt.Sprintf("%v", kv[i])
			}
			e.Fields[key] = kv[i+1]
		}
	}

	line, err := json.Marshal(e)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(append(line, '\n'))
}

func levelName(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}
