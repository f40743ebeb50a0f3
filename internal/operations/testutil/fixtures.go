package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"flowcellcli/internal/config"
	"flowcellcli/pkg/contracts/domain"
)

// Records builds experiment records for file names like "sample1_PO"; the
// name is the file name without its last three characters.
func Records(dir string, fileNames ...string) []domain.ExperimentRecord {
	recs := make([]domain.ExperimentRecord, 0, len(fileNames))
	for _, f := range fileNames {
		recs = append(recs, domain.ExperimentRecord{
			Name:     f[:len(f)-3],
			Path:     filepath.Join(dir, f),
			FileName: f,
		})
	}
	return recs
}

// FlowTables returns one table per category, each with rows rows.
func FlowTables(rows int) domain.MetricSet {
	set := domain.MetricSet{
		domain.CategoryFlowPower:   domain.NewTable("cycle", "mean flow", "mean current"),
		domain.CategoryPulseCycle:  domain.NewTable("cycle", "pulse", "charge"),
		domain.CategoryFigureMerit: domain.NewTable("cycles", "net eo flow", "total flow"),
	}
	for i := 1; i <= rows; i++ {
		f := float64(i)
		_ = set[domain.CategoryFlowPower].Append(i, f*1.5, f*0.2)
		_ = set[domain.CategoryPulseCycle].Append(i, "forward", f*10)
		_ = set[domain.CategoryFigureMerit].Append(i, f, f*2)
	}
	return set
}

// BoxplotRows returns one row per cycle with positive net metrics
func BoxplotRows(heightDelta float64, cycles ...int) []domain.BoxplotRow {
	rows := make([]domain.BoxplotRow, 0, len(cycles))
	for _, c := range cycles {
		f := float64(c)
		rows = append(rows, domain.BoxplotRow{
			Cycle:        c,
			HeightDelta:  heightDelta,
			NetEOFlow:    f,
			TotalFlow:    f * 2,
			NetCurrent:   f / 10,
			TotalCurrent: f / 5,
		})
	}
	return rows
}

// Layout returns an output layout in a temporary directory
func Layout(t *testing.T) *config.Layout {
	t.Helper()
	layout, err := config.NewLayout(t.TempDir())
	require.NoError(t, err)
	return layout
}
