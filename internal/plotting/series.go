package plotting

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/wcharczuk/go-chart/v2"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// ExperimentSamples is the raw time series of one experiment
type ExperimentSamples struct {
	Name    string
	Samples []domain.Sample
}

// CycleAverage draws the per-cycle mean flow and mean current of every
// experiment, one line per experiment, into dir. It returns the written paths.
func (r *Renderer) CycleAverage(dir string, experiments []ExperimentSamples) ([]string, error) {
	if len(experiments) == 0 {
		return nil, apperrors.NewValidationError("no experiments to plot", nil)
	}

	figures := []struct {
		name   string
		ylabel string
		value  func(domain.Sample) float64
	}{
		{CycleAverageFlowName, "Mean Flow [L/h/m²]", func(s domain.Sample) float64 { return s.Flow }},
		{CycleAverageCurrentName, "Mean Current [A/m²]", func(s domain.Sample) float64 { return s.Current }},
	}

	paths := make([]string, 0, len(figures))
	for _, fig := range figures {
		var series []chart.Series
		xlo, xhi := math.Inf(1), math.Inf(-1)
		ylo, yhi := math.Inf(1), math.Inf(-1)
		for i, exp := range experiments {
			xs, ys := cycleMeans(exp.Samples, fig.value)
			if len(xs) == 0 {
				continue
			}
			for j := range xs {
				xlo, xhi = math.Min(xlo, xs[j]), math.Max(xhi, xs[j])
				ylo, yhi = math.Min(ylo, ys[j]), math.Max(yhi, ys[j])
			}
			color := seriesColors[i%len(seriesColors)]
			series = append(series, chart.ContinuousSeries{
				Name:    exp.Name,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 2, DotWidth: 4, DotColor: color},
			})
		}
		if len(series) == 0 {
			return paths, apperrors.NewValidationError("selected experiments have no samples", nil)
		}

		ch := chart.Chart{
			Width:      r.cfg.SeriesWidth,
			Height:     r.cfg.SeriesHeight,
			Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
			XAxis:      chart.XAxis{Name: "cycle", Range: &chart.ContinuousRange{}, Ticks: niceTicks(xlo, xhi, 8)},
			YAxis:      chart.YAxis{Name: fig.ylabel, Range: &chart.ContinuousRange{}, Ticks: niceTicks(ylo, yhi, 6)},
			Series:     series,
		}
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}

		path := filepath.Join(dir, fig.name)
		if err := r.write(path, &ch); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Snapshot draws flow (left axis) and current (right axis) over time for one
// experiment into dir as "snapshot <name>.png".
func (r *Renderer) Snapshot(dir string, exp ExperimentSamples) (string, error) {
	if len(exp.Samples) == 0 {
		return "", apperrors.NewValidationError(fmt.Sprintf("experiment %s has no samples", exp.Name), nil)
	}

	n := len(exp.Samples)
	t := make([]float64, n)
	flow := make([]float64, n)
	current := make([]float64, n)
	for i, s := range exp.Samples {
		t[i], flow[i], current[i] = s.Time, s.Flow, s.Current
	}

	tlo, thi := minMax(t)
	flo, fhi := minMax(flow)
	clo, chi := minMax(current)

	ch := chart.Chart{
		Title:      exp.Name,
		Width:      r.cfg.SeriesWidth,
		Height:     r.cfg.SeriesHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "time [s]", Range: &chart.ContinuousRange{}, Ticks: niceTicks(tlo, thi, 8)},
		YAxis:      chart.YAxis{Name: "Flow [L/h/m²]", Range: &chart.ContinuousRange{}, Ticks: niceTicks(flo, fhi, 6)},
		YAxisSecondary: chart.YAxis{
			Name:  "Current [A/m²]",
			Range: &chart.ContinuousRange{},
			Ticks: niceTicks(clo, chi, 6),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "flow",
				XValues: t,
				YValues: flow,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5},
			},
			chart.ContinuousSeries{
				Name:    "current",
				YAxis:   chart.YAxisSecondary,
				XValues: t,
				YValues: current,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 1.5},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	path := filepath.Join(dir, fmt.Sprintf(SnapshotNameFormat, exp.Name))
	if err := r.write(path, &ch); err != nil {
		return "", err
	}
	return path, nil
}

// cycleMeans returns the cycle numbers and the mean of value per cycle, ascending
func cycleMeans(samples []domain.Sample, value func(domain.Sample) float64) ([]float64, []float64) {
	byCycle := make(map[int]stats.Float64Data)
	for _, s := range samples {
		byCycle[s.Cycle] = append(byCycle[s.Cycle], value(s))
	}
	cycles := make([]int, 0, len(byCycle))
	for c := range byCycle {
		cycles = append(cycles, c)
	}
	sort.Ints(cycles)

	xs := make([]float64, 0, len(cycles))
	ys := make([]float64, 0, len(cycles))
	for _, c := range cycles {
		m, err := stats.Mean(byCycle[c])
		if err != nil {
			continue
		}
		xs = append(xs, float64(c))
		ys = append(ys, m)
	}
	return xs, ys
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}
