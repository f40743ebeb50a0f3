package flowcalc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// threeCycles has two forward and two reverse samples per cycle. Cycle 1 is
// the start-up transient with a lower forward flow.
const threeCycles = `Time	Flow	Current	Voltage	Cycle
0	4	2	1	1
1	4	2	1	1
2	-2	-2	-1	1
3	-2	-2	-1	1
4	6	2	1	2
5	6	2	1	2
6	-2	-2	-1	2
7	-2	-2	-1	2
8	6	2	1	3
9	6	2	1	3
10	-2	-2	-1	3
11	-2	-2	-1	3
`

func writeRaw(t *testing.T, name, content string) domain.ExperimentRecord {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return domain.ExperimentRecord{Name: strings.TrimSuffix(name, name[len(name)-3:]), Path: path, FileName: name}
}

func newTestCalculator() *Calculator {
	return NewCalculator(config.Default().Analysis, nil)
}

func TestMeanFlow(t *testing.T) {
	rec := writeRaw(t, "sample1_PO", threeCycles)

	table, err := newTestCalculator().MeanFlow(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"cycle", "mean flow", "mean current", "mean voltage", "mean power", "duration"}, table.Columns)
	require.Equal(t, 3, table.Len())

	cycle, _ := table.Value(0, ColCycle)
	assert.Equal(t, 1, cycle)

	flow, _ := table.Float(0, ColMeanFlow)
	assert.InDelta(t, 1.0, flow, 1e-9)
	flow, _ = table.Float(1, ColMeanFlow)
	assert.InDelta(t, 2.0, flow, 1e-9)

	power, _ := table.Float(0, ColMeanPower)
	assert.InDelta(t, 2.0, power, 1e-9)
	duration, _ := table.Float(2, ColDuration)
	assert.InDelta(t, 3.0, duration, 1e-9)
}

func TestEOFlow(t *testing.T) {
	rec := writeRaw(t, "sample1_PO", threeCycles)

	table, err := newTestCalculator().EOFlow(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, 6, table.Len())

	pulse, _ := table.Value(0, ColPulse)
	assert.Equal(t, PulseForward, pulse)
	pulse, _ = table.Value(1, ColPulse)
	assert.Equal(t, PulseReverse, pulse)

	charge, _ := table.Float(0, ColCharge)
	assert.InDelta(t, 2.0, charge, 1e-9)
	charge, _ = table.Float(1, ColCharge)
	assert.InDelta(t, -2.0, charge, 1e-9)

	flow, _ := table.Float(2, ColMeanFlow)
	assert.InDelta(t, 6.0, flow, 1e-9)
}

func TestFigureOfMerit(t *testing.T) {
	rec := writeRaw(t, "sample1_PO", threeCycles)

	table, err := newTestCalculator().FigureOfMerit(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	cycles, _ := table.Value(0, ColCycles)
	assert.Equal(t, 2, cycles)

	tests := map[string]float64{
		ColNetEOFlow:      2,
		ColTotalFlow:      4,
		ColFlowEfficiency: 0.5,
		ColFlowPerPower:   1,
	}
	for col, want := range tests {
		got, ok := table.Float(0, col)
		require.True(t, ok, col)
		assert.InDelta(t, want, got, 1e-9, col)
	}
}

func TestFigureOfMerit_NoSettledCycles(t *testing.T) {
	rec := writeRaw(t, "sample1_PO", "time,flow,current,voltage,cycle\n0,1,1,1,1\n1,3,1,1,1\n")

	table, err := newTestCalculator().FigureOfMerit(context.Background(), rec)
	require.NoError(t, err)

	cycles, _ := table.Value(0, ColCycles)
	assert.Equal(t, 1, cycles)
	net, _ := table.Float(0, ColNetEOFlow)
	assert.InDelta(t, 2.0, net, 1e-9)
}

func TestBoxplotData(t *testing.T) {
	rec := writeRaw(t, "sample1_PO", threeCycles)
	calc := newTestCalculator()

	tests := []struct {
		delta   float64
		wantNet float64
	}{
		{0, 1},
		{0.1, 2},
		{0.2, 3},
	}
	for _, tt := range tests {
		rows, err := calc.BoxplotData(context.Background(), rec, tt.delta)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, 1, rows[0].Cycle)
		assert.Equal(t, tt.delta, rows[0].HeightDelta)
		assert.InDelta(t, tt.wantNet, rows[0].NetEOFlow, 1e-9)
		assert.InDelta(t, 3.0, rows[0].TotalFlow, 1e-9)
		assert.InDelta(t, 0.0, rows[0].NetCurrent, 1e-9)
		assert.InDelta(t, 2.0, rows[0].TotalCurrent, 1e-9)
		assert.Empty(t, rows[0].File)
	}
}

func TestCalculator_Errors(t *testing.T) {
	calc := newTestCalculator()

	_, err := calc.MeanFlow(context.Background(), domain.ExperimentRecord{Path: filepath.Join(t.TempDir(), "missing_PO")})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeParsing, apperrors.TypeOf(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := writeRaw(t, "sample1_PO", threeCycles)
	_, err = calc.EOFlow(ctx, rec)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCalculator_RowsMatchColumns(t *testing.T) {
	rec := writeRaw(t, "sample1_PO", threeCycles)
	c := newTestCalculator()

	tests := map[string]func(context.Context, domain.ExperimentRecord) (*domain.Table, error){
		"mean flow":        c.MeanFlow,
		"eo flow":          c.EOFlow,
		"figures of merit": c.FigureOfMerit,
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			table, err := fn(context.Background(), rec)
			require.NoError(t, err)
			require.NotZero(t, table.Len())
			for i, row := range table.Rows {
				assert.Len(t, row, len(table.Columns), "row %d", i)
			}
		})
	}
}
