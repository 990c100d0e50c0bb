package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vestige/internal/analyzer"
	"vestige/internal/config"
	"vestige/internal/graph"
	"vestige/internal/snapshot"
)

var (
	analyzeSnapshot    string
	analyzeFormat      string
	analyzeLimit       int
	analyzeWorkers     int
	analyzeEntryPoints []string
	analyzeIgnore      []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find unreachable declarations in an index snapshot",
	Long: `Load an index snapshot, build the program graph, and report every
declaration that no retained entry point can reach.

Examples:
  vestige analyze --snapshot index.json
  vestige analyze --snapshot index.yaml.gz --format human
  vestige analyze --snapshot index.json --entry-point "*AppDelegate*"
  vestige analyze --snapshot index.json --ignore "s:Generated*" --limit 50`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSnapshot, "snapshot", "s", "", "Path to the index snapshot (.json, .yaml, optionally .gz)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "Output format (json, human, csv)")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "Maximum results to report (0 = all)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Concurrent build workers (0 = one per CPU)")
	analyzeCmd.Flags().StringSliceVar(&analyzeEntryPoints, "entry-point", nil, "Entry point pattern (can be repeated, adds to config)")
	analyzeCmd.Flags().StringSliceVar(&analyzeIgnore, "ignore", nil, "Symbol pattern to exclude from results (can be repeated)")
	_ = analyzeCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return err
	}
	cfg.Analysis.EntryPoints = append(cfg.Analysis.EntryPoints, analyzeEntryPoints...)
	cfg.Analysis.IgnoredUSRs = append(cfg.Analysis.IgnoredUSRs, analyzeIgnore...)
	if analyzeFormat != "" {
		cfg.Report.Format = analyzeFormat
	}
	if cmd.Flags().Changed("limit") {
		cfg.Report.Limit = analyzeLimit
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = analyzeWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	snap, err := snapshot.Load(analyzeSnapshot)
	if err != nil {
		return err
	}

	g := graph.New()
	if err := snapshot.Build(context.Background(), g, snap, cfg.Workers, logger); err != nil {
		return err
	}

	if err := analyzer.New(g, &cfg.Analysis, logger).Run(); err != nil {
		return err
	}

	response := buildAnalyzeResponse(g, cfg.Report.Limit, time.Since(start))

	output, err := FormatResponse(response, OutputFormat(cfg.Report.Format))
	if err != nil {
		return err
	}
	fmt.Println(output)

	logger.Debug("Analysis completed",
		"results", response.Summary.ResultCount,
		"duration", time.Since(start).Milliseconds(),
	)
	return nil
}

// AnalyzeResponse is the analyze command output.
type AnalyzeResponse struct {
	Results []ResultItem   `json:"results"`
	Summary AnalyzeSummary `json:"summary"`
}

// ResultItem is a single reported declaration.
type ResultItem struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	File      string   `json:"file,omitempty"`
	Line      int      `json:"line,omitempty"`
	Column    int      `json:"column,omitempty"`
	USRs      []string `json:"usrs"`
	Implicit  bool     `json:"implicit,omitempty"`
	Redundant bool     `json:"redundant,omitempty"`
}

// AnalyzeSummary aggregates the run.
type AnalyzeSummary struct {
	TotalDeclarations int            `json:"totalDeclarations"`
	TotalReferences   int            `json:"totalReferences"`
	ReachableCount    int            `json:"reachableCount"`
	ResultCount       int            `json:"resultCount"`
	ByKind            map[string]int `json:"byKind,omitempty"`
	DurationMs        int64          `json:"durationMs"`
}

func buildAnalyzeResponse(g *graph.Graph, limit int, elapsed time.Duration) *AnalyzeResponse {
	results := g.ResultDeclarations()

	resp := &AnalyzeResponse{
		Results: make([]ResultItem, 0, len(results)),
		Summary: AnalyzeSummary{
			TotalDeclarations: g.NumDeclarations(),
			TotalReferences:   g.NumReferences(),
			ReachableCount:    len(g.ReachableDeclarations()),
			ResultCount:       len(results),
			ByKind:            make(map[string]int),
			DurationMs:        elapsed.Milliseconds(),
		},
	}

	for _, d := range results {
		resp.Summary.ByKind[string(d.Kind)]++
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	for _, d := range results {
		resp.Results = append(resp.Results, ResultItem{
			Name:      d.Name,
			Kind:      string(d.Kind),
			File:      d.Location.File,
			Line:      d.Location.Line,
			Column:    d.Location.Column,
			USRs:      d.SortedUSRs(),
			Implicit:  d.IsImplicit,
			Redundant: g.IsRedundant(d),
		})
	}
	return resp
}
