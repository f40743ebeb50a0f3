// Package boxplot prepares per-cycle boxplot rows for rendering. Everything
// here is pure: labels and the height delta are resolved by the caller.
package boxplot

import (
	"fmt"
	"slices"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// DefaultMinCycle is the first cycle kept for comparison; earlier cycles are
// the start-up transient.
const DefaultMinCycle = 2

// CoerceHeightDelta returns v when it is one of allowed, otherwise 0 and false.
func CoerceHeightDelta(v float64, allowed []float64) (float64, bool) {
	if slices.Contains(allowed, v) {
		return v, true
	}
	return 0, false
}

// Tag sets the experiment name on every row and concatenates the per-record
// rows in record order. perRecord[i] belongs to records[i]; both must have
// the same length.
func Tag(records []domain.ExperimentRecord, perRecord [][]domain.BoxplotRow) ([]domain.BoxplotRow, error) {
	if len(perRecord) != len(records) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("%d boxplot tables for %d experiments", len(perRecord), len(records)), nil)
	}

	total := 0
	for _, rows := range perRecord {
		total += len(rows)
	}

	out := make([]domain.BoxplotRow, 0, total)
	for i, rows := range perRecord {
		for _, r := range rows {
			r.File = records[i].Name
			out = append(out, r)
		}
	}
	return out, nil
}

// DistinctExperiments lists experiment names in first-seen order
func DistinctExperiments(rows []domain.BoxplotRow) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.File] {
			seen[r.File] = true
			out = append(out, r.File)
		}
	}
	return out
}

// ApplyLabels fills the sample column from labels, falling back to the
// experiment name for missing or empty labels.
func ApplyLabels(rows []domain.BoxplotRow, labels domain.LabelMap) []domain.BoxplotRow {
	out := slices.Clone(rows)
	for i := range out {
		out[i].Sample = labels.Label(out[i].File)
	}
	return out
}

// InvertSigns negates net eo flow and net current.
func InvertSigns(rows []domain.BoxplotRow) []domain.BoxplotRow {
	out := slices.Clone(rows)
	for i := range out {
		out[i].NetEOFlow = -out[i].NetEOFlow
		out[i].NetCurrent = -out[i].NetCurrent
	}
	return out
}

// FilterCycles drops rows whose cycle is below minCycle, keeping order.
func FilterCycles(rows []domain.BoxplotRow, minCycle int) []domain.BoxplotRow {
	out := make([]domain.BoxplotRow, 0, len(rows))
	for _, r := range rows {
		if r.Cycle >= minCycle {
			out = append(out, r)
		}
	}
	return out
}

// Transform applies labels, inverts the net metrics and drops the transient
// cycles, in that order.
func Transform(rows []domain.BoxplotRow, labels domain.LabelMap, minCycle int) []domain.BoxplotRow {
	return FilterCycles(InvertSigns(ApplyLabels(rows, labels)), minCycle)
}

// Group is the values of one sample for one metric
type Group struct {
	Sample string
	Values []float64
}

// GroupBySample collects the values of metric per sample, samples in
// first-seen order. Unknown metrics yield no groups.
func GroupBySample(rows []domain.BoxplotRow, metric string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range rows {
		v, ok := r.Metric(metric)
		if !ok {
			return nil
		}
		i, seen := index[r.Sample]
		if !seen {
			i = len(groups)
			index[r.Sample] = i
			groups = append(groups, Group{Sample: r.Sample})
		}
		groups[i].Values = append(groups[i].Values, v)
	}
	return groups
}
