package sentry

import (
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"github.com/ftxrc/gpymusic/config"
)

// Init starts error reporting when a DSN is configured. Without one the
// SDK's no-op hub swallows every capture call, so the client runs fine
// unconfigured.
func Init() {
	dsn := config.Config.Sentry.DSN
	if dsn == "" {
		log.Debug("SENTRY_DSN not set, error reporting disabled")
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      config.Config.Sentry.Environment,
		TracesSampleRate: 1.0,
	}); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
}

func ReportError(err error) {
	sentry.CaptureException(err)
}

func ReportMessage(message string) {
	sentry.CaptureMessage(message)
}

// Flush drains pending events. Call it on the way out.
func Flush() {
	sentry.Flush(2 * time.Second)
}
