package auth

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	authTypeLocal  = "Local"
	authTypeGoogle = "Google"

	statusSuccess = "Success"
	statusFail    = "Fail"
)

var authLog struct {
	mu      sync.Mutex
	enabled bool
	path    string
}

// EnableAuthLog turns on the append-only authentication log at dir/auth.log
func EnableAuthLog(dir string) {
	authLog.mu.Lock()
	defer authLog.mu.Unlock()
	authLog.enabled = true
	authLog.path = filepath.Join(dir, "auth.log")
}

// LogAuthAttempt appends an authentication attempt record to the auth log.
// Fields: timestamp (RFC3339) | level | authType | status | identifier? | message?
// level: debug|info|warning|error
// authType: Local|Google
// status: Success|Fail
// Logging is best effort, failures never reach the caller.
func LogAuthAttempt(level string, authType string, status string, identifier string, message string) {
	authLog.mu.Lock()
	defer authLog.mu.Unlock()

	if !authLog.enabled {
		return
	}

	if err := os.MkdirAll(filepath.Dir(authLog.path), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(authLog.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	parts := []string{time.Now().UTC().Format(time.RFC3339), level, authType, status}
	if identifier != "" {
		parts = append(parts, identifier)
	}
	if message != "" {
		parts = append(parts, message)
	}
	_, _ = f.WriteString(strings.Join(parts, " | ") + "\n")
}
