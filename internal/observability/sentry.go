// Package observability wires optional Sentry error capture.
package observability

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

var sentryEnabled atomic.Bool

// InitSentry initializes Sentry when a DSN is configured. It returns a flush
// function to defer at shutdown and whether capture is enabled. An empty DSN
// disables capture without error.
func InitSentry(dsn, environment, release string) (func(), bool, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		sentryEnabled.Store(false)
		return func() {}, false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      strings.TrimSpace(environment),
		Release:          strings.TrimSpace(release),
		AttachStacktrace: true,
	})
	if err != nil {
		sentryEnabled.Store(false)
		return func() {}, false, err
	}

	sentryEnabled.Store(true)
	return func() {
		sentry.Flush(2 * time.Second)
	}, true, nil
}

// CaptureError reports err with optional tags and extra context. It is a
// no-op when Sentry is disabled or err is nil.
func CaptureError(err error, tags map[string]string, extra map[string]any) {
	if err == nil || !sentryEnabled.Load() {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for key, value := range tags {
			scope.SetTag(key, value)
		}
		for key, value := range extra {
			scope.SetExtra(key, value)
		}
		sentry.CaptureException(err)
	})
}

// Enabled reports whether Sentry capture is active.
func Enabled() bool {
	return sentryEnabled.Load()
}
