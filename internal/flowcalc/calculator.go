package flowcalc

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"flowcellcli/internal/config"
	"flowcellcli/internal/infrastructure"
	"flowcellcli/pkg/contracts/domain"
)

// Column names of the emitted metric tables
const (
	ColCycle          = "cycle"
	ColPulse          = "pulse"
	ColDuration       = "duration"
	ColMeanFlow       = "mean flow"
	ColMeanCurrent    = "mean current"
	ColMeanVoltage    = "mean voltage"
	ColMeanPower      = "mean power"
	ColCharge         = "charge"
	ColCycles         = "cycles"
	ColNetEOFlow      = "net eo flow"
	ColTotalFlow      = "total flow"
	ColFlowEfficiency = "flow efficiency"
	ColFlowPerPower   = "flow per power"

	PulseForward = "forward"
	PulseReverse = "reverse"
)

// Calculator computes the metric tables of one raw data file. Every call reads
// the file again.
type Calculator struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

// NewCalculator creates a calculator for the given analysis settings
func NewCalculator(cfg config.AnalysisConfig, logger *slog.Logger) *Calculator {
	return &Calculator{cfg: cfg, logger: infrastructure.WithComponent(logger, "flowcalc")}
}

// Samples returns the parsed samples of a record
func (c *Calculator) Samples(ctx context.Context, rec domain.ExperimentRecord) ([]domain.Sample, error) {
	return ParseFile(ctx, rec.Path, c.cfg.Columns, c.logger)
}

// MeanFlow returns one row per cycle with the mean flow, current, voltage and
// power of the cycle.
func (c *Calculator) MeanFlow(ctx context.Context, rec domain.ExperimentRecord) (*domain.Table, error) {
	samples, err := c.Samples(ctx, rec)
	if err != nil {
		return nil, err
	}

	t := domain.NewTable(ColCycle, ColMeanFlow, ColMeanCurrent, ColMeanVoltage, ColMeanPower, ColDuration)
	for _, g := range groupByCycle(samples) {
		a := summarize(g.samples)
		if err := t.Append(g.cycle, a.meanFlow, a.meanCurrent, a.meanVoltage, a.meanPower, a.duration); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// EOFlow returns one row per cycle and pulse direction. Zero voltage samples
// are rest periods and belong to no pulse.
func (c *Calculator) EOFlow(ctx context.Context, rec domain.ExperimentRecord) (*domain.Table, error) {
	samples, err := c.Samples(ctx, rec)
	if err != nil {
		return nil, err
	}

	t := domain.NewTable(ColCycle, ColPulse, ColDuration, ColMeanFlow, ColMeanCurrent, ColCharge)
	for _, g := range groupByCycle(samples) {
		var forward, reverse []domain.Sample
		for _, s := range g.samples {
			switch {
			case s.Voltage > 0:
				forward = append(forward, s)
			case s.Voltage < 0:
				reverse = append(reverse, s)
			}
		}
		for _, p := range []struct {
			name    string
			samples []domain.Sample
		}{{PulseForward, forward}, {PulseReverse, reverse}} {
			if len(p.samples) == 0 {
				continue
			}
			a := summarize(p.samples)
			if err := t.Append(g.cycle, p.name, a.duration, a.meanFlow, a.meanCurrent, a.charge); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// FigureOfMerit returns a single row over the settled cycles (cycle >= MinCycle).
// When no cycle qualifies all cycles are used.
func (c *Calculator) FigureOfMerit(ctx context.Context, rec domain.ExperimentRecord) (*domain.Table, error) {
	samples, err := c.Samples(ctx, rec)
	if err != nil {
		return nil, err
	}

	groups := groupByCycle(samples)
	settled := make([]cycleGroup, 0, len(groups))
	for _, g := range groups {
		if g.cycle >= c.cfg.MinCycle {
			settled = append(settled, g)
		}
	}
	if len(settled) == 0 {
		c.logger.WarnContext(ctx, "No settled cycles, using all cycles for figures of merit",
			slog.String("experiment", rec.Name),
			slog.Int("min_cycle", c.cfg.MinCycle))
		settled = groups
	}

	var net, total, power stats.Float64Data
	for _, g := range settled {
		a := summarize(g.samples)
		net = append(net, a.meanFlow)
		total = append(total, a.meanAbsFlow)
		power = append(power, a.meanPower)
	}

	netMean := mean(net)
	totalMean := mean(total)
	powerMean := mean(power)

	t := domain.NewTable(ColCycles, ColNetEOFlow, ColTotalFlow, ColFlowEfficiency, ColFlowPerPower)
	if err := t.Append(len(settled), netMean, totalMean, ratio(math.Abs(netMean), totalMean), ratio(math.Abs(netMean), powerMean)); err != nil {
		return nil, err
	}
	return t, nil
}

// BoxplotData returns one boxplot row per cycle. The hydrostatic back flow of
// the height delta is added to the net flow.
func (c *Calculator) BoxplotData(ctx context.Context, rec domain.ExperimentRecord, heightDelta float64) ([]domain.BoxplotRow, error) {
	samples, err := c.Samples(ctx, rec)
	if err != nil {
		return nil, err
	}

	offset := c.cfg.HeadCoefficient * heightDelta
	groups := groupByCycle(samples)
	rows := make([]domain.BoxplotRow, 0, len(groups))
	for _, g := range groups {
		a := summarize(g.samples)
		rows = append(rows, domain.BoxplotRow{
			Cycle:        g.cycle,
			HeightDelta:  heightDelta,
			NetEOFlow:    a.meanFlow + offset,
			TotalFlow:    a.meanAbsFlow,
			NetCurrent:   a.meanCurrent,
			TotalCurrent: a.meanAbsCurrent,
		})
	}
	return rows, nil
}

type cycleGroup struct {
	cycle   int
	samples []domain.Sample
}

// groupByCycle splits samples by cycle number, ascending
func groupByCycle(samples []domain.Sample) []cycleGroup {
	byCycle := make(map[int][]domain.Sample)
	for _, s := range samples {
		byCycle[s.Cycle] = append(byCycle[s.Cycle], s)
	}

	cycles := make([]int, 0, len(byCycle))
	for cycle := range byCycle {
		cycles = append(cycles, cycle)
	}
	sort.Ints(cycles)

	groups := make([]cycleGroup, 0, len(cycles))
	for _, cycle := range cycles {
		groups = append(groups, cycleGroup{cycle: cycle, samples: byCycle[cycle]})
	}
	return groups
}

type aggregate struct {
	meanFlow       float64
	meanAbsFlow    float64
	meanCurrent    float64
	meanAbsCurrent float64
	meanVoltage    float64
	meanPower      float64
	duration       float64
	charge         float64
}

// summarize computes the means of a contiguous run of samples, its duration
// and the charge passed (trapezoidal integral of current over time).
func summarize(samples []domain.Sample) aggregate {
	n := len(samples)
	flow := make(stats.Float64Data, n)
	absFlow := make(stats.Float64Data, n)
	current := make(stats.Float64Data, n)
	absCurrent := make(stats.Float64Data, n)
	voltage := make(stats.Float64Data, n)
	power := make(stats.Float64Data, n)

	for i, s := range samples {
		flow[i] = s.Flow
		absFlow[i] = math.Abs(s.Flow)
		current[i] = s.Current
		absCurrent[i] = math.Abs(s.Current)
		voltage[i] = s.Voltage
		power[i] = math.Abs(s.Voltage * s.Current)
	}

	var charge float64
	for i := 1; i < n; i++ {
		dt := samples[i].Time - samples[i-1].Time
		charge += dt * (samples[i].Current + samples[i-1].Current) / 2
	}

	var duration float64
	if n > 0 {
		duration = samples[n-1].Time - samples[0].Time
	}

	return aggregate{
		meanFlow:       mean(flow),
		meanAbsFlow:    mean(absFlow),
		meanCurrent:    mean(current),
		meanAbsCurrent: mean(absCurrent),
		meanVoltage:    mean(voltage),
		meanPower:      mean(power),
		duration:       duration,
		charge:         charge,
	}
}

// mean returns 0 for empty input
func mean(data stats.Float64Data) float64 {
	m, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	return m
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
