package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintHistoryResults outputs the history, dispatching based on the output format configured.
func PrintHistoryResults(result schema.HistoryResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON history"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForHistory(w, result, fmtFloat)
		}, "Wrote CSV history"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := WriteHistoryTable(os.Stdout, result, cfg); err != nil {
			return fmt.Errorf("error writing history table output: %w", err)
		}
	}
	return nil
}

// WriteHistoryTable renders one row per sample followed by a summary line.
func WriteHistoryTable(w io.Writer, result schema.HistoryResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	table := tablewriter.NewWriter(w)

	table.Header([]string{"#", "Day", "Departure", "Minutes", "Delay", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range result.Rows {
		label := string(r.Label)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.DurationMinutes, result.Summary.MinMinutes)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			weekdayName(r.DayOfWeek),
			r.Timestamp.Format("2006-01-02 15:04"),
			fmtFloat(r.DurationMinutes),
			"+" + fmtFloat(r.DelayMinutes),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := result.Summary
	_, err := fmt.Fprintf(w, "%s: %d samples, min %s, mean %s, max %s minutes\n",
		result.RouteKey, s.Count, fmtFloat(s.MinMinutes), fmtFloat(s.MeanMinutes), fmtFloat(s.MaxMinutes))
	return err
}

// weekdayName maps a Monday-based day index to its short name.
func weekdayName(day int) string {
	names := [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if day < 0 || day >= len(names) {
		return "?"
	}
	return names[day]
}
