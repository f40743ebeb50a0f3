package boxplot

import "flowcellcli/pkg/contracts/domain"

// Metric is one boxplot figure: the row column it shows and its axis label.
type Metric struct {
	Name  string
	Label string
}

// Metrics are the four figures rendered per height delta, in render order.
var Metrics = []Metric{
	{Name: domain.MetricNetEOFlow, Label: "Net EO Flow [L/h/m²]"},
	{Name: domain.MetricTotalFlow, Label: "Total Flow [L/h/m²]"},
	{Name: domain.MetricNetCurrent, Label: "Net Current [A/m²]"},
	{Name: domain.MetricTotalCurrent, Label: "Total Current [A/m²]"},
}

// FigureWidth scales the figure width linearly with the number of experiments.
func FigureWidth(experiments, perExperiment int) int {
	if experiments < 1 {
		experiments = 1
	}
	return experiments * perExperiment
}
