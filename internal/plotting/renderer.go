package plotting

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"flowcellcli/internal/boxplot"
	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/internal/infrastructure"
)

// ArtifactWriter stores a streamed artifact at a path
type ArtifactWriter interface {
	WriteAtomic(path string, write func(w io.Writer) error) error
}

// Figure file names below the figures directory
const (
	CycleAverageFlowName    = "cycle average flow.png"
	CycleAverageCurrentName = "cycle average current.png"
	SnapshotNameFormat      = "snapshot %s.png"
)

var (
	// transparent must not be the zero Color, which go-chart treats as unset.
	transparent = drawing.Color{R: 255, G: 255, B: 255, A: 0}

	boxFill    = drawing.ColorFromHex("4C72B0").WithAlpha(200)
	boxStroke  = drawing.ColorFromHex("3D3D3D")
	medianLine = drawing.ColorFromHex("111111")

	seriesColors = []drawing.Color{
		chart.ColorBlue, chart.ColorGreen, chart.ColorRed, chart.ColorOrange,
		chart.ColorCyan, chart.ColorAlternateGray, chart.ColorYellow, chart.ColorBlack,
	}
)

// Renderer draws figures as PNG files. It is safe for concurrent use.
type Renderer struct {
	cfg     config.PlotConfig
	out     ArtifactWriter
	font    *truetype.Font
	fontErr error
	logger  *slog.Logger
}

// NewRenderer creates a renderer writing through out. The chart font is
// loaded here, once: go-chart's lazy default font is not safe to initialize
// from concurrent renders.
func NewRenderer(cfg config.PlotConfig, out ArtifactWriter, logger *slog.Logger) *Renderer {
	font, err := chart.GetDefaultFont()
	return &Renderer{
		cfg:     cfg,
		out:     out,
		font:    font,
		fontErr: err,
		logger:  infrastructure.WithComponent(logger, "plotting"),
	}
}

// BoxplotSpec describes one boxplot figure
type BoxplotSpec struct {
	YLabel string
	Groups []boxplot.Group
	// Experiments sets the figure width, see boxplot.FigureWidth.
	Experiments int
}

// Boxplot draws one box per group, in group order, on a transparent background.
func (r *Renderer) Boxplot(path string, spec BoxplotSpec) error {
	if len(spec.Groups) == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("no data for %s", filepath.Base(path)), nil)
	}

	boxes := make([]BoxStats, len(spec.Groups))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, g := range spec.Groups {
		bs, ok := ComputeBoxStats(g.Values)
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("sample %q has no values", g.Sample), nil)
		}
		boxes[i] = bs
		l, h := bs.Extent()
		lo, hi = math.Min(lo, l), math.Max(hi, h)
	}

	// boxes sit at x = 1..n; the empty outer ticks keep half a slot of margin
	xTicks := []chart.Tick{{Value: 0.5, Label: ""}}
	medians := chart.ContinuousSeries{
		Name:  "median",
		Style: chart.Style{StrokeColor: transparent, DotWidth: 0},
	}
	for i, g := range spec.Groups {
		x := float64(i + 1)
		xTicks = append(xTicks, chart.Tick{Value: x, Label: g.Sample})
		medians.XValues = append(medians.XValues, x)
		medians.YValues = append(medians.YValues, boxes[i].Median)
	}
	xTicks = append(xTicks, chart.Tick{Value: float64(len(spec.Groups)) + 0.5, Label: ""})

	xRange := &chart.ContinuousRange{}
	yRange := &chart.ContinuousRange{}

	ch := chart.Chart{
		Width:      boxplot.FigureWidth(spec.Experiments, r.cfg.BoxplotWidthPerExperiment),
		Height:     r.cfg.BoxplotHeight,
		Background: chart.Style{FillColor: transparent, Padding: chart.Box{Top: 8, Left: 8, Right: 8, Bottom: 8}},
		Canvas:     chart.Style{FillColor: transparent},
		XAxis: chart.XAxis{
			Name:  "sample",
			Range: xRange,
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: yRange,
			Ticks: niceTicks(lo, hi, 6),
		},
		Series: []chart.Series{medians},
	}
	ch.Elements = []chart.Renderable{drawBoxes(boxes, xRange, yRange)}

	return r.write(path, &ch)
}

// drawBoxes renders the boxes, whiskers and outliers in canvas coordinates.
// The ranges carry their domains once the chart has laid out the canvas.
func drawBoxes(boxes []BoxStats, xr, yr *chart.ContinuousRange) chart.Renderable {
	return func(rd chart.Renderer, canvas chart.Box, _ chart.Style) {
		px := func(x float64) int { return canvas.Left + xr.Translate(x) }
		py := func(y float64) int { return canvas.Bottom - yr.Translate(y) }

		slot := xr.Translate(1) - xr.Translate(0)
		half := int(float64(slot) * 0.3)
		if half < 2 {
			half = 2
		}
		whiskerCap := half / 2

		line := func(x0, y0, x1, y1 int, color drawing.Color, width float64) {
			rd.SetStrokeColor(color)
			rd.SetStrokeWidth(width)
			rd.MoveTo(x0, y0)
			rd.LineTo(x1, y1)
			rd.Stroke()
		}

		for i, b := range boxes {
			cx := px(float64(i + 1))

			// whiskers
			line(cx, py(b.Q3), cx, py(b.UpperWhisker), boxStroke, 1)
			line(cx, py(b.Q1), cx, py(b.LowerWhisker), boxStroke, 1)
			line(cx-whiskerCap, py(b.UpperWhisker), cx+whiskerCap, py(b.UpperWhisker), boxStroke, 1)
			line(cx-whiskerCap, py(b.LowerWhisker), cx+whiskerCap, py(b.LowerWhisker), boxStroke, 1)

			// box
			rd.SetFillColor(boxFill)
			rd.SetStrokeColor(boxStroke)
			rd.SetStrokeWidth(1)
			rd.MoveTo(cx-half, py(b.Q3))
			rd.LineTo(cx+half, py(b.Q3))
			rd.LineTo(cx+half, py(b.Q1))
			rd.LineTo(cx-half, py(b.Q1))
			rd.LineTo(cx-half, py(b.Q3))
			rd.Close()
			rd.FillStroke()

			line(cx-half, py(b.Median), cx+half, py(b.Median), medianLine, 2)

			// outliers
			rd.SetFillColor(transparent)
			rd.SetStrokeColor(boxStroke)
			rd.SetStrokeWidth(1)
			for _, o := range b.Outliers {
				rd.Circle(3, cx, py(o))
				rd.Stroke()
			}
		}
	}
}

func (r *Renderer) write(path string, ch *chart.Chart) error {
	if r.fontErr != nil {
		return apperrors.NewStorageError("failed to load chart font", r.fontErr)
	}
	ch.Font = r.font
	if err := r.out.WriteAtomic(path, func(w io.Writer) error {
		return ch.Render(chart.PNG, w)
	}); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to render %s", filepath.Base(path)), err)
	}
	r.logger.Debug("Figure rendered",
		slog.String("path", path),
		slog.Int("width", ch.Width),
		slog.Int("height", ch.Height))
	return nil
}
