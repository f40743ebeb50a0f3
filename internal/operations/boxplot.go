package operations

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"flowcellcli/internal/boxplot"
	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/internal/plotting"
	"flowcellcli/internal/prompt"
	"flowcellcli/pkg/contracts/domain"
)

// Boxplot builds the boxplot table of the selection and renders one figure
// per metric. Steps run in fixed order: height delta, boxplot data, tag,
// labels, transform (labels, sign inversion, cycle filter), diagnostic
// table, render.
func (s *Service) Boxplot(ctx context.Context, sess SessionState, opts BoxplotOptions) (*Result, error) {
	r := s.begin(ctx, OperationBoxplot)

	p := opts.Prompter
	if p == nil {
		p = prompt.Defaults{Logger: s.logger}
	}

	var (
		sel       domain.Selection
		layout    *config.Layout
		delta     float64
		perRecord [][]domain.BoxplotRow
		rows      []domain.BoxplotRow
		labels    domain.LabelMap
	)

	err := r.step(StepSelection, func(context.Context) (string, error) {
		var err error
		if sel, layout, err = resolve(sess); err != nil {
			return "", err
		}
		r.result.Experiments = len(sel.Records)
		return plural(len(sel.Records), "experiment"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepHeightDelta, func(ctx context.Context) (string, error) {
		var err error
		if delta, err = prompt.ResolveHeightDelta(ctx, p, opts.HeightDelta, s.analysis.HeightDeltas); err != nil {
			return "", err
		}
		r.result.HeightDelta = delta
		return config.FormatHeightDelta(delta) + " m", nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepBoxplotData, func(ctx context.Context) (string, error) {
		perRecord = make([][]domain.BoxplotRow, 0, len(sel.Records))
		for _, rec := range sel.Records {
			data, err := s.calc.BoxplotData(ctx, rec, delta)
			if err != nil {
				return "", fmt.Errorf("boxplot data of %s: %w", rec.Name, err)
			}
			perRecord = append(perRecord, data)
		}
		s.tracer.RecordExperiments(ctx, OperationBoxplot, len(sel.Records))
		return plural(len(perRecord), "table"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepTag, func(context.Context) (string, error) {
		var err error
		if rows, err = boxplot.Tag(sel.Records, perRecord); err != nil {
			return "", err
		}
		if len(rows) == 0 {
			return "", apperrors.NewValidationError("calculator returned no boxplot rows", apperrors.ErrEmptyAggregation)
		}
		return plural(len(rows), "row"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepLabels, func(ctx context.Context) (string, error) {
		var err error
		experiments := boxplot.DistinctExperiments(rows)
		if labels, err = prompt.CollectLabels(ctx, p, experiments, opts.Labels); err != nil {
			return "", err
		}
		r.result.Labels = labels
		return plural(len(labels), "label"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepTransform, func(ctx context.Context) (string, error) {
		rows = boxplot.Transform(rows, labels, s.analysis.MinCycle)
		if len(rows) == 0 {
			return "", apperrors.NewValidationError(
				fmt.Sprintf("no cycles at or above cycle %d", s.analysis.MinCycle), apperrors.ErrEmptyAggregation)
		}
		r.result.Rows = len(rows)
		s.tracer.RecordRows(ctx, OperationBoxplot, len(rows))
		return plural(len(rows), "row"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepDiagnostic, func(ctx context.Context) (string, error) {
		if err := s.writer.WriteTable(layout.TempWorkbook, DiagnosticSheet, domain.BoxplotTable(rows)); err != nil {
			return "", err
		}
		r.artifact(ctx, "workbook", layout.TempWorkbook)
		return layout.TempWorkbook, nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepRender, func(ctx context.Context) (string, error) {
		paths, err := s.renderBoxplots(ctx, layout, rows, delta, len(sel.Records))
		if err != nil {
			return "", err
		}
		for _, path := range paths {
			r.artifact(ctx, "figure", path)
		}
		return plural(len(paths), "figure"), nil
	})
	return r.finish(err)
}

// renderBoxplots renders the metric figures concurrently. Each figure has
// its own file; paths come back in metric order.
func (s *Service) renderBoxplots(ctx context.Context, layout *config.Layout, rows []domain.BoxplotRow, delta float64, experiments int) ([]string, error) {
	paths := make([]string, len(boxplot.Metrics))
	g, gctx := errgroup.WithContext(ctx)

	for i, m := range boxplot.Metrics {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := layout.BoxplotPath(m.Name, delta)
			spec := plotting.BoxplotSpec{
				YLabel:      m.Label,
				Groups:      boxplot.GroupBySample(rows, m.Name),
				Experiments: experiments,
			}
			if err := s.renderer.Boxplot(path, spec); err != nil {
				return fmt.Errorf("boxplot %s: %w", m.Name, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
