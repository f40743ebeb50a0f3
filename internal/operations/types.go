package operations

import (
	"time"

	"flowcellcli/internal/prompt"
	"flowcellcli/pkg/contracts/domain"
)

// Operation names, one per CLI command
const (
	OperationFileSummary   = "file summary"
	OperationFolderSummary = "folder summary"
	OperationFilePlots     = "file plots"
	OperationBoxplot       = "boxplot"
)

// Step names
const (
	StepSelection   = "selection"
	StepCalculate   = "calculate"
	StepAggregate   = "aggregate"
	StepExport      = "export"
	StepLoadSamples = "load samples"
	StepPlot        = "plot"
	StepHeightDelta = "height delta"
	StepBoxplotData = "boxplot data"
	StepTag         = "tag"
	StepLabels      = "labels"
	StepTransform   = "transform"
	StepDiagnostic  = "diagnostic table"
	StepRender      = "render"
)

// DiagnosticSheet is the sheet name of temp.xlsx
const DiagnosticSheet = "boxplot data"

// BoxplotOptions carries what the boxplot operation asks the user for.
// Unset values are asked through Prompter.
type BoxplotOptions struct {
	// HeightDelta, when set, answers the height delta questions.
	HeightDelta *float64
	// Labels are used as given; experiments missing from it are asked for.
	Labels   domain.LabelMap
	Prompter prompt.Prompter
}

// Result is the outcome of one operation
type Result struct {
	Operation   string          `json:"operation"`
	Steps       []*StepState    `json:"steps"`
	Experiments int             `json:"experiments"`
	Rows        int             `json:"rows"`
	Artifacts   []string        `json:"artifacts"`
	Summary     domain.Summary  `json:"-"`
	HeightDelta float64         `json:"height_delta,omitempty"`
	Labels      domain.LabelMap `json:"labels,omitempty"`
	Duration    time.Duration   `json:"duration"`
}

// Step returns the named step state, or nil
func (r *Result) Step(name string) *StepState {
	for _, s := range r.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Succeeded reports whether every step completed
func (r *Result) Succeeded() bool {
	for _, s := range r.Steps {
		if status, _ := s.Snapshot(); status != StepStatusCompleted {
			return false
		}
	}
	return len(r.Steps) > 0
}
