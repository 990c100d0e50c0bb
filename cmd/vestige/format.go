package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
	FormatCSV   OutputFormat = "csv"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp *AnalyzeResponse, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON, "":
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp), nil
	case FormatCSV:
		return formatCSV(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp *AnalyzeResponse) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp *AnalyzeResponse) string {
	var sb strings.Builder

	sb.WriteString("Unused Code Analysis\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━\n\n")

	if len(resp.Results) == 0 {
		sb.WriteString("No unused declarations found.\n")
		sb.WriteString(fmt.Sprintf("\nAnalyzed %d declarations.\n", resp.Summary.TotalDeclarations))
		return sb.String()
	}

	for _, item := range resp.Results {
		marker := "✗"
		if item.Redundant {
			marker = "~"
		}
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", marker, item.Kind, item.Name))
		if item.File != "" {
			sb.WriteString(fmt.Sprintf("    %s", item.File))
			if item.Line > 0 {
				sb.WriteString(fmt.Sprintf(":%d", item.Line))
				if item.Column > 0 {
					sb.WriteString(fmt.Sprintf(":%d", item.Column))
				}
			}
			sb.WriteString("\n")
		}
		if item.Redundant {
			sb.WriteString("    Reason: redundant, overrides functionality nothing uses\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Summary:\n")
	sb.WriteString("━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("  Declarations analyzed: %d\n", resp.Summary.TotalDeclarations))
	sb.WriteString(fmt.Sprintf("  Reachable: %d\n", resp.Summary.ReachableCount))
	sb.WriteString(fmt.Sprintf("  Unused: %d\n", resp.Summary.ResultCount))

	if len(resp.Summary.ByKind) > 0 {
		sb.WriteString("\n  By kind:\n")
		for _, kind := range sortedKeys(resp.Summary.ByKind) {
			sb.WriteString(fmt.Sprintf("    %s: %d\n", kind, resp.Summary.ByKind[kind]))
		}
	}

	sb.WriteString("\nRun `vestige analyze --format json` for machine-readable output.\n")
	return sb.String()
}

func formatCSV(resp *AnalyzeResponse) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"kind", "name", "file", "line", "column", "usrs", "redundant"}); err != nil {
		return "", err
	}
	for _, item := range resp.Results {
		record := []string{
			item.Kind,
			item.Name,
			item.File,
			strconv.Itoa(item.Line),
			strconv.Itoa(item.Column),
			strings.Join(item.USRs, " "),
			strconv.FormatBool(item.Redundant),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
