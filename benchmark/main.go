// Package main provides a performance benchmarking tool for the likeplot CLI.
// It generates synthetic datasets of increasing size, runs each chart command
// several times with and without run history, and writes the averages to CSV.
//
// Prerequisites:
// - likeplot binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where datasets and the run history are created
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the averages of one command over one dataset size.
type BenchmarkResult struct {
	Rows        int
	Command     string
	NoRunsTime  string
	SQLiteTime  string
	FirstSQLite string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Sizes    []int
	Commands []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:  os.Args[1],
		Timeout:  2 * time.Minute,
		Runs:     4,
		Sizes:    []int{1_000, 10_000, 100_000},
		Commands: []string{"boxplot", "barplot", "lineplot"},
	}

	if _, err := exec.LookPath("likeplot"); err != nil {
		fmt.Printf("Prerequisites check failed: likeplot binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes every command against every dataset size.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %v timeout, %d runs per phase\n",
		len(config.Sizes), config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		dir := filepath.Join(config.WorkDir, fmt.Sprintf("rows_%d", size))
		if err := writeDatasets(dir, size); err != nil {
			fmt.Printf("Skipping %d rows: %v\n", size, err)
			continue
		}
		fmt.Printf("Benchmarking %d rows\n", size)

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, dir, size, command))
		}
	}

	return results
}

// runBenchmarkSuite runs a command without and then with SQLite run history.
func runBenchmarkSuite(config BenchmarkConfig, dir string, size int, command string) BenchmarkResult {
	runsDB := filepath.Join(dir, "runs.db")
	_ = os.Remove(runsDB)

	_, noRuns := runPhase(config, dir, command, nil)
	first, sqliteAvg := runPhase(config, dir, command, []string{
		"LIKEPLOT_RUNS_BACKEND=sqlite",
		"LIKEPLOT_RUNS_DB_CONNECT=" + runsDB,
	})

	firstStr := "TIMEOUT"
	if first > 0 {
		firstStr = fmt.Sprintf("%.3fs", first)
	}
	fmt.Printf("  %-9s no runs: %s, first sqlite: %s, sqlite average: %s\n", command, noRuns, firstStr, sqliteAvg)

	return BenchmarkResult{
		Rows:        size,
		Command:     command,
		NoRunsTime:  noRuns,
		SQLiteTime:  sqliteAvg,
		FirstSQLite: firstStr,
	}
}

// runPhase runs a command config.Runs times and returns the first time and the overall average.
func runPhase(config BenchmarkConfig, dir, command string, env []string) (first float64, avg string) {
	var times []float64
	for range config.Runs {
		start := time.Now()

		cmd := exec.Command("likeplot", command, "--output", "csv", "--output-file", os.DevNull)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), env...)

		done := make(chan error, 1)
		go func() { done <- cmd.Run() }()

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
		return 0, "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return times[0], fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

var (
	ageGroups = []string{"18-25", "26-35", "36-45", "46-55", "56+"}
	platforms = []string{"Instagram", "Facebook", "Twitter", "LinkedIn"}
	postTypes = []string{"Image", "Video", "Link", "Text"}
	weekdays  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// writeDatasets writes the three default datasets with n rows each into dir.
func writeDatasets(dir string, n int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(uint64(n), 42))

	var box, bar, line strings.Builder
	box.WriteString("Platform,PostType,AgeGroup,Likes\n")
	bar.WriteString("Platform,PostType,AvgLikes\n")
	line.WriteString("Date,AvgLikes\n")

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range n {
		fmt.Fprintf(&box, "%s,%s,%s,%d\n",
			platforms[rng.IntN(len(platforms))], postTypes[rng.IntN(len(postTypes))],
			ageGroups[rng.IntN(len(ageGroups))], rng.IntN(500))
		fmt.Fprintf(&bar, "%s,%s,%.1f\n",
			platforms[rng.IntN(len(platforms))], postTypes[rng.IntN(len(postTypes))], rng.Float64()*300)
		day := start.AddDate(0, 0, i)
		fmt.Fprintf(&line, "%d/%d/%d (%s),%.1f\n",
			day.Month(), day.Day(), day.Year(), weekdays[(int(day.Weekday())+6)%7], rng.Float64()*300)
	}

	files := map[string]string{
		"socialMedia.csv":     box.String(),
		"socialMediaAvg.csv":  bar.String(),
		"socialMediaTime.csv": line.String(),
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/likeplot_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"rows", "cmd", "no_runs_avg", "first_sqlite", "sqlite_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		record := []string{fmt.Sprint(result.Rows), result.Command, result.NoRunsTime, result.FirstSQLite, result.SQLiteTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results per command.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %8d rows: No runs: %s, First SQLite: %s, SQLite: %s\n",
					result.Rows, result.NoRunsTime, result.FirstSQLite, result.SQLiteTime)
			}
		}
	}
}
