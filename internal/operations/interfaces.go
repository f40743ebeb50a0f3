package operations

import (
	"context"

	"flowcellcli/internal/config"
	"flowcellcli/internal/plotting"
	"flowcellcli/pkg/contracts/domain"
)

// Calculator computes the metric tables of one experiment
type Calculator interface {
	MeanFlow(ctx context.Context, rec domain.ExperimentRecord) (*domain.Table, error)
	EOFlow(ctx context.Context, rec domain.ExperimentRecord) (*domain.Table, error)
	FigureOfMerit(ctx context.Context, rec domain.ExperimentRecord) (*domain.Table, error)
	BoxplotData(ctx context.Context, rec domain.ExperimentRecord, heightDelta float64) ([]domain.BoxplotRow, error)
}

// SampleSource loads the raw time series of one experiment
type SampleSource interface {
	Samples(ctx context.Context, rec domain.ExperimentRecord) ([]domain.Sample, error)
}

// SummaryWriter writes spreadsheet artifacts
type SummaryWriter interface {
	WriteSummary(path string, summary domain.Summary) error
	WriteTable(path, sheet string, table *domain.Table) error
}

// PlotRenderer writes figure images
type PlotRenderer interface {
	Boxplot(path string, spec plotting.BoxplotSpec) error
	CycleAverage(dir string, experiments []plotting.ExperimentSamples) ([]string, error)
	Snapshot(dir string, exp plotting.ExperimentSamples) (string, error)
}

// SessionState is the part of a session an operation reads
type SessionState interface {
	Selection() (domain.Selection, error)
	Layout() (*config.Layout, error)
}
