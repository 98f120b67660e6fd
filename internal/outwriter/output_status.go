package outwriter

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
)

// PrintRunStoreStatus prints run store status, as JSON when requested.
func PrintRunStoreStatus(status schema.RunStoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON status")
	}
	return WriteRunStoreStatus(os.Stdout, status)
}

// WriteRunStoreStatus writes run store status information as plain lines.
func WriteRunStoreStatus(w io.Writer, status schema.RunStoreStatus) error {
	lines := []string{
		fmt.Sprintf("Runs Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines, fmt.Sprintf("Total Runs: %d", status.TotalRuns))
		if status.TotalRuns > 0 {
			lines = append(lines,
				fmt.Sprintf("Last Run ID: %d", status.LastRunID),
				fmt.Sprintf("Last Run: %s", status.LastRunTime.Local().Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Oldest Run: %s", status.OldestRunTime.Local().Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Total Samples: %d", status.TotalSamples),
			)
		}
		lines = append(lines, "Table Sizes:")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		slices.Sort(tables)
		for _, table := range tables {
			lines = append(lines, fmt.Sprintf("  %s: %d rows", table, status.TableSizes[table]))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
