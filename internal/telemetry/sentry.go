// Package telemetry reports audit and export failures to Sentry when a DSN is configured.
package telemetry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

var enabled bool

// Setup initialises Sentry. With an empty dsn it does nothing. The returned
// function flushes buffered events and must be called before exit.
func Setup(dsn, release, runID string) (func(), error) {
	if dsn == "" {
		enabled = false
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	})
	if err != nil {
		return func() {}, fmt.Errorf("failed to initialise sentry: %w", err)
	}
	enabled = true
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("run_id", runID)
	})

	return func() { sentry.Flush(flushTimeout) }, nil
}

// CaptureRouteFailure records a failed audit with its route and device.
func CaptureRouteFailure(device, route string, err error) {
	Capture(err, map[string]string{"device": device, "route": route})
}

// Capture records err with the given tags.
func Capture(err error, tags map[string]string) {
	if !enabled || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}
