package main

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"flowcellcli/internal/exporter"
	"flowcellcli/internal/operations"
	"flowcellcli/pkg/contracts/domain"
)

// printResult writes the step table, the figures of merit of summary runs
// and the list of written files.
func printResult(w io.Writer, result *operations.Result) {
	fmt.Fprintf(w, "\n%s\n", result.Operation)

	steps := tablewriter.NewWriter(w)
	steps.SetHeader([]string{"Step", "Status", "Duration", "Detail"})
	steps.SetAutoWrapText(false)
	for _, s := range result.Steps {
		status, msg := s.Snapshot()
		steps.Append([]string{s.Name, statusMark(status), s.Duration().Round(time.Millisecond).String(), msg})
	}
	steps.Render()

	if fom := result.Summary[domain.CategoryFigureMerit]; fom != nil && fom.Len() > 0 {
		fmt.Fprintf(w, "\n%s\n", domain.CategoryFigureMerit)
		printTable(w, fom)
	}

	if len(result.Artifacts) > 0 {
		fmt.Fprintln(w, "\nWritten:")
		for _, p := range result.Artifacts {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
}

func printTable(w io.Writer, t *domain.Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns)
	table.SetAutoFormatHeaders(false)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = exporter.FormatValue(v)
		}
		table.Append(cells)
	}
	table.Render()
}

func statusMark(s operations.StepStatus) string {
	switch s {
	case operations.StepStatusCompleted:
		return "✓ " + string(s)
	case operations.StepStatusFailed:
		return "✗ " + string(s)
	}
	return string(s)
}
