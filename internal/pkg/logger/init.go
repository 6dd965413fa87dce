package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	DefaultTimeFormat           = "15:04:05.000"
	DefaultCallerSkipFrameCount = 3 // set to 3 because logger wrapped in logger.go

	NoColor   = true
	UseCaller = false // for developer, if you want to expose line of code of caller
	flagDebug = "debug"
)

var (
	logBuffer bytes.Buffer

	// DebugMode flag for determining debug mode
	DebugMode = false
)

func init() {
	zerolog.TimeFieldFormat = DefaultTimeFormat
	zerolog.CallerSkipFrameCount = DefaultCallerSkipFrameCount

	consoleWriter := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(&logBuffer),
		NoColor:    NoColor,
		TimeFormat: DefaultTimeFormat,
	}
	lgr := zerolog.New(zerolog.MultiLevelWriter(consoleWriter))
	if UseCaller {
		lgr = lgr.With().Caller().Logger()
	}

	log.Logger = lgr
}

// PrintLogs print all stacked log
func PrintLogs() {
	printLogsTo(os.Stderr)
}

func printLogsTo(w io.Writer) {
	if !DebugMode {
		return
	}
	logs := logBuffer.String()
	if len(logs) > 0 {
		fmt.Fprintln(w, "\n----- Log -----")
		fmt.Fprintln(w, logs)
	}
	logBuffer.Reset()
}

// SetDebugMode reads the persistent --debug flag from the command.
func SetDebugMode(cmd *cobra.Command) {
	if f := cmd.Flag(flagDebug); f != nil {
		DebugMode = f.Value.String() == "true"
	}
}

// AddLogFlag set flag --debug
func AddLogFlag(cmd ...*cobra.Command) {
	for _, c := range cmd {
		c.PersistentFlags().Bool(flagDebug, false, "Run in debug mode")
	}
}
