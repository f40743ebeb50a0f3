// Package aggregate concatenates per-experiment metric tables into one table
// per category, tagging every row with the experiment it came from.
package aggregate

import (
	"fmt"
	"slices"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// Concat builds the aggregate table of one category. A "file" column holding
// the experiment name is inserted at position 0; rows keep input order, then
// per-table order. The first table defines the column set and every other
// table must match it exactly.
func Concat(category domain.Category, inputs []domain.TaggedTable) (*domain.Table, error) {
	if len(inputs) == 0 {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("no %s tables to aggregate", category), apperrors.ErrEmptyAggregation).
			WithContext("category", string(category))
	}

	var columns []string
	total := 0
	for i, in := range inputs {
		if in.Experiment == "" {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("%s table %d has no experiment name", category, i), nil)
		}
		if in.Table == nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("%s table of %s is missing", category, in.Experiment), nil)
		}
		if slices.Contains(in.Table.Columns, domain.FileColumn) {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("%s table of %s already has a %q column", category, in.Experiment, domain.FileColumn),
				apperrors.ErrColumnMismatch)
		}

		if i == 0 {
			columns = in.Table.Columns
		} else if !slices.Equal(columns, in.Table.Columns) {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("%s columns of %s %v differ from %s %v",
					category, in.Experiment, in.Table.Columns, inputs[0].Experiment, columns),
				apperrors.ErrColumnMismatch).
				WithContext("category", string(category)).
				WithContext("experiment", in.Experiment).
				WithContext("expected", columns).
				WithContext("got", in.Table.Columns)
		}
		total += in.Table.Len()
	}

	out := &domain.Table{
		Columns: append([]string{domain.FileColumn}, columns...),
		Rows:    make([][]any, 0, total),
	}
	for _, in := range inputs {
		for _, row := range in.Table.Rows {
			tagged := make([]any, 0, len(row)+1)
			tagged = append(tagged, in.Experiment)
			tagged = append(tagged, row...)
			out.Rows = append(out.Rows, tagged)
		}
	}
	return out, nil
}

// Collector gathers the metric sets of a selection in order and builds the
// aggregate table of every category.
type Collector struct {
	tagged map[domain.Category][]domain.TaggedTable
	last   string
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{tagged: make(map[domain.Category][]domain.TaggedTable)}
}

// Add records the tables calculated for one experiment.
func (c *Collector) Add(experiment string, set domain.MetricSet) {
	for _, category := range domain.SheetOrder {
		c.tagged[category] = append(c.tagged[category], domain.TaggedTable{
			Experiment: experiment,
			Table:      set[category],
		})
	}
	c.last = experiment
}

// Last returns the most recently added experiment name
func (c *Collector) Last() string {
	return c.last
}

// Summary concatenates every category.
func (c *Collector) Summary() (domain.Summary, error) {
	summary := make(domain.Summary, len(domain.SheetOrder))
	for _, category := range domain.SheetOrder {
		table, err := Concat(category, c.tagged[category])
		if err != nil {
			return nil, err
		}
		summary[category] = table
	}
	return summary, nil
}
