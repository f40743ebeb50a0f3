package domain

import (
	"fmt"
	"slices"
)

// Category is one of the three metric table kinds produced per experiment.
type Category string

const (
	CategoryFlowPower   Category = "flow and power summary"
	CategoryPulseCycle  Category = "pulse and cycle calc"
	CategoryFigureMerit Category = "figures of merit"
)

// SheetOrder is the fixed sheet order of an exported summary workbook.
var SheetOrder = []Category{CategoryFigureMerit, CategoryFlowPower, CategoryPulseCycle}

// FileColumn is the experiment tag column prepended during aggregation.
const FileColumn = "file"

// Table is an ordered set of rows over a fixed, ordered column list.
// Cell values are float64, int or string.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Append adds a row. The row must have one value per column.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Value returns the cell at row i for the named column.
func (t *Table) Value(i int, column string) (any, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[i][idx], true
}

// Float returns a numeric cell as float64.
func (t *Table) Float(i int, column string) (float64, bool) {
	v, ok := t.Value(i, column)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{Columns: slices.Clone(t.Columns), Rows: make([][]any, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// MetricSet is what the calculator produces for one experiment.
type MetricSet map[Category]*Table

// TaggedTable is a metric table together with the experiment it came from.
type TaggedTable struct {
	Experiment string
	Table      *Table
}

// Summary holds the aggregate table of every category.
type Summary map[Category]*Table
