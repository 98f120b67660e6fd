package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunRecords outputs recorded runs, dispatching based on the output format configured.
func PrintRunRecords(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON runs")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRuns(w, runs)
		}, "Wrote CSV runs")
	default:
		return WriteRunsTable(os.Stdout, runs, cfg)
	}
}

// WriteRunsTable renders recorded runs as a table.
func WriteRunsTable(w io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	locWidth := GetMaxTableLocationWidth(cfg)
	table := tablewriter.NewWriter(w)

	table.Header([]string{"Run", "Route", "Origin", "Destination", "Start", "Interval", "Samples", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.RouteKey,
			contract.TruncateText(r.Origin, locWidth),
			contract.TruncateText(r.Destination, locWidth),
			r.StartTime.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%dm", r.IntervalMinutes),
			fmt.Sprintf("%d/%d", r.SampleCount, r.PlannedTicks),
			string(r.Status),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCSVResultsForRuns(w io.Writer, runs []schema.RunRecord) error {
	header := []string{"run_id", "route_key", "origin", "destination", "interval_minutes", "planned_ticks", "start_time", "end_time", "sample_count", "status", "error_message"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			end, msg := "", ""
			if r.EndTime != nil {
				end = r.EndTime.Format(time.RFC3339)
			}
			if r.ErrorMessage != nil {
				msg = *r.ErrorMessage
			}
			row := []string{
				strconv.FormatInt(r.RunID, 10),
				r.RouteKey,
				r.Origin,
				r.Destination,
				strconv.Itoa(int(r.IntervalMinutes)),
				strconv.Itoa(int(r.PlannedTicks)),
				r.StartTime.Format(time.RFC3339),
				end,
				strconv.Itoa(int(r.SampleCount)),
				string(r.Status),
				msg,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintRunResult prints the closing lines of a sample run.
func PrintRunResult(result schema.RunResult, cfg *contract.Config) error {
	return WriteRunResult(os.Stdout, result, cfg)
}

// WriteRunResult writes the closing lines of a sample run to w.
func WriteRunResult(w io.Writer, result schema.RunResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	summary := schema.Summarize(result.Samples)

	if _, err := fmt.Fprintf(w, "💾 Saved %d samples to %s\n", len(result.Samples), result.SeriesFile); err != nil {
		return err
	}
	if summary.Count > 0 {
		if _, err := fmt.Fprintf(w, "📊 min %s, mean %s, max %s minutes\n",
			fmtFloat(summary.MinMinutes), fmtFloat(summary.MeanMinutes), fmtFloat(summary.MaxMinutes)); err != nil {
			return err
		}
	}
	if result.ChartFile != "" {
		if _, err := fmt.Fprintf(w, "📈 Chart written to %s\n", result.ChartFile); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Sampling completed in %v.\n", result.FinishedAt.Sub(result.StartedAt).Round(time.Second))
	return err
}
