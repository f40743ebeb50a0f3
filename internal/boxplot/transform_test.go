package boxplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

func rowsFor(file string, cycles ...int) []domain.BoxplotRow {
	rows := make([]domain.BoxplotRow, 0, len(cycles))
	for _, c := range cycles {
		rows = append(rows, domain.BoxplotRow{
			File:         file,
			Cycle:        c,
			NetEOFlow:    float64(c),
			TotalFlow:    float64(c) * 2,
			NetCurrent:   -float64(c) / 10,
			TotalCurrent: float64(c) / 10,
		})
	}
	return rows
}

func TestCoerceHeightDelta(t *testing.T) {
	allowed := []float64{0, 0.1, 0.2}

	tests := []struct {
		in     float64
		want   float64
		wantOK bool
	}{
		{0, 0, true},
		{0.1, 0.1, true},
		{0.2, 0.2, true},
		{0.3, 0, false},
		{-0.1, 0, false},
		{0.15, 0, false},
		{1, 0, false},
	}
	for _, tt := range tests {
		got, ok := CoerceHeightDelta(tt.in, allowed)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %v", tt.in)
	}
}

func TestTag(t *testing.T) {
	records := []domain.ExperimentRecord{{Name: "sample1"}, {Name: "sample2"}}
	perRecord := [][]domain.BoxplotRow{
		{{Cycle: 1}, {Cycle: 2}},
		{{Cycle: 1}},
	}

	rows, err := Tag(records, perRecord)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "sample1", rows[0].File)
	assert.Equal(t, 2, rows[1].Cycle)
	assert.Equal(t, "sample2", rows[2].File)

	// inputs keep their empty tag
	assert.Empty(t, perRecord[0][0].File)
}

func TestTag_LengthMismatch(t *testing.T) {
	records := []domain.ExperimentRecord{{Name: "sample1"}}

	tests := map[string][][]domain.BoxplotRow{
		"more tables":  {{{Cycle: 1}}, {{Cycle: 2}}},
		"fewer tables": nil,
	}
	for name, perRecord := range tests {
		t.Run(name, func(t *testing.T) {
			rows, err := Tag(records, perRecord)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
			assert.Nil(t, rows)
		})
	}
}

func TestDistinctExperiments(t *testing.T) {
	rows := append(rowsFor("b", 1, 2), rowsFor("a", 1)...)
	rows = append(rows, rowsFor("b", 3)...)
	assert.Equal(t, []string{"b", "a"}, DistinctExperiments(rows))
	assert.Empty(t, DistinctExperiments(nil))
}

func TestApplyLabels(t *testing.T) {
	rows := append(rowsFor("sample1", 1, 2), rowsFor("sample2", 1)...)
	rows = append(rows, rowsFor("sample3", 1)...)
	labels := domain.LabelMap{"sample1": "Membrane A", "sample2": ""}

	out := ApplyLabels(rows, labels)
	assert.Equal(t, "Membrane A", out[0].Sample)
	assert.Equal(t, "Membrane A", out[1].Sample)
	assert.Equal(t, "sample2", out[2].Sample, "empty label falls back to identifier")
	assert.Equal(t, "sample3", out[3].Sample, "missing label falls back to identifier")
	assert.Empty(t, rows[0].Sample)
}

func TestInvertSigns(t *testing.T) {
	rows := rowsFor("s", 1, 2, 3)
	out := InvertSigns(rows)

	for i := range rows {
		assert.Equal(t, -1*rows[i].NetEOFlow, out[i].NetEOFlow)
		assert.Equal(t, -1*rows[i].NetCurrent, out[i].NetCurrent)
		assert.Equal(t, rows[i].TotalFlow, out[i].TotalFlow)
		assert.Equal(t, rows[i].TotalCurrent, out[i].TotalCurrent)
	}
}

func TestFilterCycles(t *testing.T) {
	rows := append(rowsFor("a", 0, 1, 2, 3), rowsFor("b", 5, 1, 2)...)
	out := FilterCycles(rows, DefaultMinCycle)

	var cycles []int
	for _, r := range out {
		assert.GreaterOrEqual(t, r.Cycle, 2)
		cycles = append(cycles, r.Cycle)
	}
	assert.Equal(t, []int{2, 3, 5, 2}, cycles)
}

func TestTransform(t *testing.T) {
	rows := append(rowsFor("sample1", 1, 2, 3), rowsFor("sample2", 1, 2)...)
	labels := domain.LabelMap{"sample1": "A", "sample2": "B"}

	out := Transform(rows, labels, DefaultMinCycle)
	require.Len(t, out, 3)

	assert.Equal(t, domain.BoxplotRow{
		File: "sample1", Sample: "A", Cycle: 2,
		NetEOFlow: -2, TotalFlow: 4, NetCurrent: 0.2, TotalCurrent: 0.2,
	}, out[0])
	assert.Equal(t, "B", out[2].Sample)
	assert.Equal(t, -2.0, out[2].NetEOFlow)
}

func TestGroupBySample(t *testing.T) {
	rows := []domain.BoxplotRow{
		{Sample: "B", TotalFlow: 1},
		{Sample: "A", TotalFlow: 2},
		{Sample: "B", TotalFlow: 3},
	}

	groups := GroupBySample(rows, domain.MetricTotalFlow)
	assert.Equal(t, []Group{
		{Sample: "B", Values: []float64{1, 3}},
		{Sample: "A", Values: []float64{2}},
	}, groups)

	assert.Nil(t, GroupBySample(rows, "voltage"))
}

func TestMetricsAndWidth(t *testing.T) {
	require.Len(t, Metrics, 4)
	assert.Equal(t, "net eo flow", Metrics[0].Name)
	assert.Equal(t, "Total Current [A/m²]", Metrics[3].Label)

	assert.Equal(t, 300, FigureWidth(3, 100))
	assert.Equal(t, 100, FigureWidth(0, 100))
}
