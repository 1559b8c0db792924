package logger

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jsphweid/chordmelody/util"
)

// Fields represents structured log fields
type Fields map[string]interface{}

var debug atomic.Bool

// SetDebug turns Debug lines on or off.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// WithRequest extracts request context for logging
func WithRequest(r *http.Request) Fields {
	return Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	log.Printf("[INFO] %s %s", msg, formatFields(fields))
	breadcrumb("info", msg, fields, sentry.LevelInfo)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	log.Printf("[WARN] %s %s", msg, formatFields(fields))
	breadcrumb("warning", msg, fields, sentry.LevelWarning)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))

	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for key, value := range fields {
				scope.SetContext(key, map[string]interface{}{
					"value": value,
				})
			}
			if id, ok := fields["id"].(string); ok {
				scope.SetTag("arrangement_id", id)
			}
			hub.CaptureException(err)
		})
	}
}

// Debug logs a debug message when debug output is on
func Debug(msg string, fields Fields) {
	if !debug.Load() {
		return
	}
	log.Printf("[DEBUG] %s %s", msg, formatFields(fields))
	breadcrumb("debug", msg, fields, sentry.LevelDebug)
}

// LogRequest logs a finished HTTP request
func LogRequest(r *http.Request, duration time.Duration, statusCode int) {
	fields := WithRequest(r)
	fields["duration_ms"] = duration.Milliseconds()
	fields["status_code"] = statusCode
	Info("request completed", fields)
}

func breadcrumb(kind string, msg string, fields Fields, level sentry.Level) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     map[string]interface{}(fields),
			Level:    level,
		})
	}
}

// formatFields renders fields as k=v pairs in key order
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, k := range util.SortedKeys(fields) {
		parts = append(parts, k+"="+formatValue(fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
