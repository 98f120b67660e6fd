package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/trafficprofile/schema"
)

// writeCSVResultsForHistory writes the enriched history as CSV.
func writeCSVResultsForHistory(w io.Writer, result schema.HistoryResult, fmtFloat func(float64) string) error {
	header := []string{"route_key", "day_of_week", "datetime", "duration_minutes", "delay_minutes", "label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range result.Rows {
			row := []string{
				result.RouteKey,
				strconv.Itoa(r.DayOfWeek),
				r.Timestamp.Format(schema.SeriesTimeLayout),
				fmtFloat(r.DurationMinutes),
				fmtFloat(r.DelayMinutes),
				string(r.Label),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
