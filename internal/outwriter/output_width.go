package outwriter

import (
	"os"

	"github.com/huangsam/trafficprofile/internal/contract"
	"golang.org/x/term"
)

// GetTerminalWidth returns the configured width override, the detected
// terminal width, or a conservative default for CI and pipes.
func GetTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80
	}
	return detectedWidth
}

// GetMaxTableLocationWidth calculates the width left for each of the origin
// and destination columns in the runs table.
func GetMaxTableLocationWidth(cfg *contract.Config) int {
	// ID + Status + Start + Interval + Samples with borders/padding
	baseWidth := 75

	available := (GetTerminalWidth(cfg) - baseWidth) / 2
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
