//nolint:forbidigo // Printer is used for customer friendly output to terminal
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guumaster/logsymbols"
	"github.com/muesli/termenv"
)

//nolint:gochecknoglobals // read only, initialize objects once for performance.
var (
	successStyle      = lipgloss.NewStyle().Bold(true)
	errorStyle        = lipgloss.NewStyle().Bold(true)
	headerStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	notificationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")) // Bright yellow, good for notifications
	mutedStyle        = lipgloss.NewStyle().Faint(true)
)

//nolint:gochecknoglobals // swapped by tests and by the dashboard
var out io.Writer = os.Stdout

// SetOutput redirects all printer output and returns a func restoring the previous writer.
func SetOutput(w io.Writer) func() {
	prev := out
	out = w
	return func() { out = prev }
}

func Success(msg string) {
	fmt.Fprint(out, successStyle.Render(string(logsymbols.Success)+" "+msg))
}

func Successln(msg string) {
	fmt.Fprintln(out, successStyle.Render(string(logsymbols.Success)+" "+msg))
}

func Successf(format string, args ...any) {
	newFormat, linesRemoved := trimAndCountTrailingNewlines(format)
	fmt.Fprint(out, successStyle.Render(string(logsymbols.Success)+" "+fmt.Sprintf(newFormat, args...)))
	NewLine(linesRemoved)
}

func Error(msg string) {
	fmt.Fprint(out, errorStyle.Render(string(logsymbols.Error)+" "+msg))
}

func Errorln(msg string) {
	fmt.Fprintln(out, errorStyle.Render(string(logsymbols.Error)+" "+msg))
}

func Errorf(format string, args ...any) {
	newFormat, linesRemoved := trimAndCountTrailingNewlines(format)
	fmt.Fprint(out, errorStyle.Render(string(logsymbols.Error)+" "+fmt.Sprintf(newFormat, args...)))
	NewLine(linesRemoved)
}

func Warnln(msg string) {
	fmt.Fprintln(out, notificationStyle.Render(string(logsymbols.Warning)+" "+msg))
}

func Info(msg string) {
	fmt.Fprint(out, msg)
}

func Infoln(msg string) {
	fmt.Fprintln(out, msg)
}

func Infof(format string, args ...any) {
	fmt.Fprintf(out, format, args...)
}

func Mutedln(msg string) {
	fmt.Fprintln(out, mutedStyle.Render(msg))
}

func Header(msg string) {
	fmt.Fprint(out, headerStyle.Render(msg))
}

func Headerln(msg string) {
	fmt.Fprintln(out, headerStyle.Render(msg))
}

func Headerf(format string, args ...any) {
	newFormat, linesRemoved := trimAndCountTrailingNewlines(format)
	fmt.Fprint(out, headerStyle.Render(fmt.Sprintf(newFormat, args...)))
	NewLine(linesRemoved)
}

func Notification(msg string) {
	fmt.Fprint(out, notificationStyle.Render(msg))
}

func Notificationf(format string, args ...any) {
	newFormat, linesRemoved := trimAndCountTrailingNewlines(format)
	fmt.Fprint(out, notificationStyle.Render(fmt.Sprintf(newFormat, args...)))
	NewLine(linesRemoved)
}

func Notificationln(msg string) {
	fmt.Fprintln(out, notificationStyle.Render(msg))
}

func NewLine(numberOfLines int) {
	if numberOfLines <= 0 {
		return
	}
	fmt.Fprint(out, strings.Repeat("\n", numberOfLines))
}

func MoveCursorUp(numberOfLines int) {
	output := termenv.NewOutput(out)
	output.CursorUp(numberOfLines)
}

func ClearToEndOfLine() {
	output := termenv.NewOutput(out)
	output.ClearLineRight()
}

// ClearScreen wipes the terminal before a watch mode redraw.
func ClearScreen() {
	output := termenv.NewOutput(out)
	output.ClearScreen()
}

// SectionDivider prints a divider line of a given symbol and length.
// Default length is 1.
func SectionDivider(symbol string, length int) {
	if length <= 0 {
		length = 1
	}
	fmt.Fprintln(out, strings.Repeat(symbol, length))
}

// trimAndCountTrailingNewlines trims trailing newlines from a string and returns the count.
// Used for sylized output to ensure the cursor is reset properly.
func trimAndCountTrailingNewlines(s string) (string, int) {
	if s == "" {
		return "", 0
	}

	count := 0
	i := len(s)
	for i > 0 && s[i-1] == '\n' {
		i--
		count++
	}
	return s[:i], count
}
