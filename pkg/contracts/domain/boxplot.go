package domain

// Boxplot metric column names as emitted by the calculator.
const (
	MetricNetEOFlow    = "net eo flow"
	MetricTotalFlow    = "total flow"
	MetricNetCurrent   = "net current"
	MetricTotalCurrent = "total current"
)

// BoxplotRow is one cycle of one experiment in a boxplot-ready table.
type BoxplotRow struct {
	File         string  `json:"file"`
	Sample       string  `json:"sample"`
	Cycle        int     `json:"cycle"`
	HeightDelta  float64 `json:"height_delta"`
	NetEOFlow    float64 `json:"net_eo_flow"`
	TotalFlow    float64 `json:"total_flow"`
	NetCurrent   float64 `json:"net_current"`
	TotalCurrent float64 `json:"total_current"`
}

// Metric returns the value of one of the four boxplot metrics.
func (r BoxplotRow) Metric(name string) (float64, bool) {
	switch name {
	case MetricNetEOFlow:
		return r.NetEOFlow, true
	case MetricTotalFlow:
		return r.TotalFlow, true
	case MetricNetCurrent:
		return r.NetCurrent, true
	case MetricTotalCurrent:
		return r.TotalCurrent, true
	}
	return 0, false
}

// BoxplotColumns is the column order used when a boxplot table is written out
var BoxplotColumns = []string{
	FileColumn, "cycle", "height delta",
	MetricNetEOFlow, MetricTotalFlow, MetricNetCurrent, MetricTotalCurrent,
	"sample",
}

// BoxplotTable converts rows to a Table in BoxplotColumns order.
func BoxplotTable(rows []BoxplotRow) *Table {
	t := NewTable(BoxplotColumns...)
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.File, r.Cycle, r.HeightDelta,
			r.NetEOFlow, r.TotalFlow, r.NetCurrent, r.TotalCurrent,
			r.Sample,
		})
	}
	return t
}

// LabelMap maps experiment identifiers to display labels.
type LabelMap map[string]string

// Label returns the display label for an experiment, falling back to the
// identifier when no non-empty label was given.
func (m LabelMap) Label(experiment string) string {
	if l, ok := m[experiment]; ok && l != "" {
		return l
	}
	return experiment
}

// Sample is one time step of a raw data file.
type Sample struct {
	Time    float64
	Flow    float64
	Current float64
	Voltage float64
	Cycle   int
}
