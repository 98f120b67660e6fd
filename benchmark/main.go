// Package main provides a performance benchmarking tool for the trafficprofile CLI.
// It seeds synthetic route series of increasing size, then times the read-side
// commands over them, treating the first successful run as cold and averaging
// the rest as warm, and writes CSV output for documentation.
//
// Prerequisites:
// - trafficprofile binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Scratch directory for series files (defaults to a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/huangsam/trafficprofile/internal/seriesstore"
	"github.com/huangsam/trafficprofile/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Rows     int
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Sizes    []int
	Commands [][]string
}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "trafficprofile-bench-*")
		if err != nil {
			fmt.Printf("Cannot create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 2 * time.Minute,
		Runs:    4,
		Sizes:   []int{1_000, 10_000, 100_000},
		Commands: [][]string{
			{"history", "--output", "csv", "--output-file", os.DevNull},
			{"plot", "--all"},
			{"export"},
		},
	}

	if _, err := exec.LookPath("trafficprofile"); err != nil {
		fmt.Printf("Prerequisites check failed: trafficprofile binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// seedSeries writes rows samples two minutes apart with a rush-hour bump.
func seedSeries(store *seriesstore.CSVStore, routeKey string, rows int) error {
	start := time.Date(2024, 3, 4, 6, 0, 0, 0, time.Local)
	samples := make([]schema.Sample, rows)
	for i := range samples {
		at := start.Add(time.Duration(i) * 2 * time.Minute)
		hour := float64(at.Hour()) + float64(at.Minute())/60
		minutes := 20 + 15*math.Exp(-math.Pow(hour-8.5, 2))
		samples[i] = schema.NewSample(at, math.Round(minutes*100)/100)
	}
	_, err := store.Persist(routeKey, samples)
	return err
}

// runBenchmarks seeds each series size and times every command against it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult
	store := seriesstore.New(config.WorkDir)

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d runs per command\n",
		len(config.Sizes), config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		routeKey := fmt.Sprintf("bench_%d", size)
		if err := seedSeries(store, routeKey, size); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", routeKey, err)
		}
		fmt.Printf("Benchmarking %s\n", routeKey)

		for _, command := range config.Commands {
			cold, warm := runBenchmark(config, routeKey, command)
			results = append(results, BenchmarkResult{
				Rows:     size,
				Command:  command[0],
				ColdTime: cold,
				WarmTime: warm,
			})
			fmt.Printf("  %-8s cold: %s, warm average: %s\n", command[0], cold, warm)
		}
	}

	return results, nil
}

// runBenchmark executes one command several times and returns cold and warm average times.
func runBenchmark(config BenchmarkConfig, routeKey string, command []string) (coldTime, warmAvg string) {
	args := append([]string{command[0], routeKey, "--data-dir", config.WorkDir}, command[1:]...)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("trafficprofile", args...)
		cmd.Dir = config.WorkDir

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) == 0 {
		return "TIMEOUT", "TIMEOUT"
	}
	coldTime = fmt.Sprintf("%.3fs", times[0])
	if len(times) == 1 {
		return coldTime, "n/a"
	}
	var sum float64
	for _, t := range times[1:] {
		sum += t
	}
	return coldTime, fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s/trafficprofile_benchmark_%s.csv", os.TempDir(), timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"rows", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{fmt.Sprint(result.Rows), result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"history", "plot", "export"} {
		fmt.Printf("%s:\n", strings.ToUpper(command[:1])+command[1:])
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %8d rows: Cold: %s, Warm: %s\n", result.Rows, result.ColdTime, result.WarmTime)
			}
		}
	}
}
