// Package report forwards errors to Sentry. Every function is a no-op until
// Setup has been called with a DSN.
package report

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
)

// Setup initializes the Sentry client. An empty dsn leaves reporting disabled
// and returns false.
func Setup(dsn, env, release string) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return false, fmt.Errorf("sentry init: %w", err)
	}
	configureScope()
	return true, nil
}

// Flush waits up to two seconds for buffered events to be sent.
func Flush() {
	sentry.Flush(2 * time.Second)
}

func configureScope() {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("goarch", runtime.GOARCH)
		scope.SetContext("host_info", map[string]any{
			"hostname": hostname(),
		})
	})
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

// Error reports err with optional tags at error level.
func Error(err error, tags map[string]string) {
	ErrorWithLevel(err, sentry.LevelError, tags)
}

// ErrorWithLevel reports err with the given severity and tags.
func ErrorWithLevel(err error, level sentry.Level, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
