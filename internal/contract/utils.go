package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/huangsam/trafficprofile/schema"
)

// Color variables for console output.
var (
	SevereColor   = color.New(color.FgRed, color.Bold)     // SevereColor represents standard danger.
	HeavyColor    = color.New(color.FgMagenta, color.Bold) // HeavyColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	FreeColor     = color.New(color.FgCyan)                // FreeColor represents free-flowing traffic.
)

// GetColorLabel returns a colored delay label for console output (table).
// It uses schema.GetDelayLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(minutes, best float64) string {
	label := schema.GetDelayLabel(minutes, best)
	text := string(label)

	switch label {
	case schema.SevereDelay:
		return SevereColor.Sprint(text)
	case schema.HeavyDelay:
		return HeavyColor.Sprint(text)
	case schema.ModerateDelay:
		return ModerateColor.Sprint(text)
	default:
		return FreeColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

var (
	exit = os.Exit

	fatalMu    sync.Mutex
	fatalHooks []func()
)

// OnFatal registers fn to run before LogFatal exits, in registration order.
func OnFatal(fn func()) {
	fatalMu.Lock()
	defer fatalMu.Unlock()
	fatalHooks = append(fatalHooks, fn)
}

// LogFatal logs an error, runs the OnFatal hooks and exits the program.
// The failing stage is named when the error carries one.
func LogFatal(msg string, err error) {
	if stage := StageOf(err); stage != "" {
		_, _ = fmt.Fprintf(os.Stderr, "Fatal %s [%s]: %v\n", msg, stage, err)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	}
	fatalMu.Lock()
	hooks := fatalHooks
	fatalMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run tracking.
func GetRunsDBFilePath(dataDir string) string {
	if dataDir == "" {
		dataDir = "."
	}
	return filepath.Join(dataDir, ".trafficprofile_runs.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// FormatMinutes renders a duration in minutes with the given precision.
func FormatMinutes(minutes float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, minutes)
}
