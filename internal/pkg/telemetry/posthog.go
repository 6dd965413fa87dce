package telemetry

import (
	"os"
	"path/filepath"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/posthog/posthog-go"
	"github.com/rs/zerolog/log"
)

const (
	RunningEvent  = "Forge CLI Running"
	CommandEvent  = "Forge CLI Command"
	timestampFile = ".forgecli-last-run"
	machineIDApp  = "forge-cli"
)

var (
	posthogClient      posthog.Client
	posthogInitialized bool
	lastLoggedTime     time.Time
)

// PosthogInit creates the analytics client when an API key was compiled in.
func PosthogInit(posthogAPIKey string) {
	if posthogAPIKey == "" {
		return
	}
	posthogClient = posthog.New(posthogAPIKey)
	posthogInitialized = true

	lastTime, err := getLastLoggedTime()
	if err != nil {
		log.Err(err).Msg("Cannot get last logged time")
	}
	lastLoggedTime = lastTime

	if err := updateLastLoggedTime(time.Now()); err != nil {
		log.Err(err).Msg("Cannot update last logged time")
	}
}

func getLastLoggedTime() (time.Time, error) {
	filePath, err := getTimestampFilePath()
	if err != nil {
		return time.Time{}, err
	}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.DateOnly, string(data))
}

func getTimestampFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, timestampFile), nil
}

func updateLastLoggedTime(timestamp time.Time) error {
	filePath, err := getTimestampFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(timestamp.Format(time.DateOnly)), 0600)
}

func isSameDay(time1, time2 time.Time) bool {
	y1, m1, d1 := time1.Date()
	y2, m2, d2 := time2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// PosthogCaptureEvent records event once per day for RunningEvent and every time otherwise.
func PosthogCaptureEvent(version, event string, properties map[string]interface{}) {
	if !posthogInitialized || (event == RunningEvent && isSameDay(lastLoggedTime, time.Now())) {
		return
	}
	machineID, err := machineid.ProtectedID(machineIDApp)
	if err != nil {
		log.Err(err).Msg("Cannot get machine id")
		return
	}

	props := posthog.NewProperties().Set("version", version)
	for k, v := range properties {
		props.Set(k, v)
	}
	err = posthogClient.Enqueue(posthog.Capture{
		DistinctId: machineID,
		Timestamp:  time.Now(),
		Event:      event,
		Properties: props,
	})
	if err != nil {
		log.Err(err).Msg("Cannot capture event")
	}
}

func PosthogClose() {
	if !posthogInitialized {
		return
	}
	if err := posthogClient.Close(); err != nil {
		log.Err(err).Msg("Cannot close posthog client")
	}
	posthogInitialized = false
}
