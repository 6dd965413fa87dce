package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"pkg.world.dev/forge-cli/cmd/forge/root"
	_ "pkg.world.dev/forge-cli/internal/pkg/logger"
	"pkg.world.dev/forge-cli/internal/pkg/telemetry"
)

// This variable will be overridden by ldflags during build
// Example : go build -ldflags "-X main.AppVersion=1.0.0 -X main.PosthogApiKey=<POSTHOG_API_KEY> -X main.SentryDsn=<SENTRY_DSN>"
var (
	AppVersion    string
	PosthogApiKey string //nolint:revive,stylecheck // set by ldflags
	SentryDsn     string
)

func init() {
	// Set default app version in case not provided by ldflags
	if AppVersion == "" {
		AppVersion = "dev"
	}
	root.AppVersion = AppVersion
}

func main() {
	os.Exit(run())
}

// run holds the deferred telemetry flushes, which os.Exit would skip.
func run() int {
	// Sentry initialization
	telemetry.SentryInit(SentryDsn, AppVersion)
	defer telemetry.SentryFlush()

	// Set logger sentry hook
	log.Logger = log.Logger.Hook(telemetry.SentryHook{})

	// Posthog Initialization
	telemetry.PosthogInit(PosthogApiKey)
	defer telemetry.PosthogClose()

	// Capture event running
	telemetry.PosthogCaptureEvent(AppVersion, telemetry.RunningEvent, nil)

	return root.Execute()
}
