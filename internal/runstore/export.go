package runstore

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/internal/parquet"
)

// ExecuteRunsExport exports tracked runs and their samples to Parquet files.
func ExecuteRunsExport(mgr contract.StoreManager, outputFile string) error {
	return exportRuns(os.Stdout, mgr, outputFile)
}

func exportRuns(w io.Writer, mgr contract.StoreManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetRunStore()
	if store == nil {
		return errors.New("run tracking is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get runs status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total samples: %d\n", status.TotalSamples)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	samples, err := store.GetAllSamples()
	if err != nil {
		return fmt.Errorf("failed to retrieve samples: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	samplesFile := outputFile + ".samples.parquet"
	if err := parquet.WriteRunSamplesParquet(parquet.ConvertSampleRecords(samples), samplesFile); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d samples to: %s\n", len(samples), samplesFile)

	return nil
}
