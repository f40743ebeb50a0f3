package operations

import (
	"context"
	"fmt"

	"flowcellcli/internal/aggregate"
	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// FileSummary calculates every selected file and writes
// "data summary <last experiment>.xlsx".
func (s *Service) FileSummary(ctx context.Context, sess SessionState) (*Result, error) {
	return s.summarize(ctx, sess, OperationFileSummary, domain.SelectionFiles)
}

// FolderSummary calculates every raw file of the selected folder and writes
// "folder data summary.xlsx".
func (s *Service) FolderSummary(ctx context.Context, sess SessionState) (*Result, error) {
	return s.summarize(ctx, sess, OperationFolderSummary, domain.SelectionFolder)
}

func (s *Service) summarize(ctx context.Context, sess SessionState, operation string, kind domain.SelectionKind) (*Result, error) {
	r := s.begin(ctx, operation)

	var (
		sel       domain.Selection
		layout    *config.Layout
		collector = aggregate.NewCollector()
	)

	err := r.step(StepSelection, func(context.Context) (string, error) {
		var err error
		if sel, layout, err = resolve(sess); err != nil {
			return "", err
		}
		if sel.Kind != kind {
			return "", apperrors.NewSelectionError(
				fmt.Sprintf("%s needs a %s selection, have %s", operation, kind, sel.Kind),
				apperrors.ErrSelectionKind)
		}
		r.result.Experiments = len(sel.Records)
		return plural(len(sel.Records), "experiment"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepCalculate, func(ctx context.Context) (string, error) {
		for _, rec := range sel.Records {
			set, err := s.calculate(ctx, rec)
			if err != nil {
				return "", err
			}
			collector.Add(rec.Name, set)
		}
		s.tracer.RecordExperiments(ctx, operation, len(sel.Records))
		return plural(len(sel.Records)*len(domain.SheetOrder), "table"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepAggregate, func(ctx context.Context) (string, error) {
		summary, err := collector.Summary()
		if err != nil {
			return "", err
		}
		rows := 0
		for _, t := range summary {
			rows += t.Len()
		}
		r.result.Summary = summary
		r.result.Rows = rows
		s.tracer.RecordRows(ctx, operation, rows)
		return plural(rows, "row"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepExport, func(ctx context.Context) (string, error) {
		path := layout.FolderSummaryPath()
		if kind == domain.SelectionFiles {
			path = layout.FileSummaryPath(collector.Last())
		}
		if err := s.writer.WriteSummary(path, r.result.Summary); err != nil {
			return "", err
		}
		r.artifact(ctx, "workbook", path)
		return path, nil
	})
	return r.finish(err)
}

// calculate runs the three calculators of one experiment. Nothing is cached.
func (s *Service) calculate(ctx context.Context, rec domain.ExperimentRecord) (domain.MetricSet, error) {
	calculators := []struct {
		category domain.Category
		fn       func(context.Context, domain.ExperimentRecord) (*domain.Table, error)
	}{
		{domain.CategoryFlowPower, s.calc.MeanFlow},
		{domain.CategoryPulseCycle, s.calc.EOFlow},
		{domain.CategoryFigureMerit, s.calc.FigureOfMerit},
	}

	set := make(domain.MetricSet, len(calculators))
	for _, c := range calculators {
		table, err := c.fn(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("%s of %s: %w", c.category, rec.Name, err)
		}
		if table == nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("%s of %s returned no table", c.category, rec.Name), apperrors.ErrEmptyAggregation)
		}
		set[c.category] = table
	}

	s.logger.DebugContext(ctx, "Experiment calculated", "experiment", rec.Name, "path", rec.Path)
	return set, nil
}

// resolve reads the selection and output layout of a session
func resolve(sess SessionState) (domain.Selection, *config.Layout, error) {
	if sess == nil {
		return domain.Selection{}, nil, apperrors.NewSelectionError("no session", apperrors.ErrNoSelection)
	}
	sel, err := sess.Selection()
	if err != nil {
		return domain.Selection{}, nil, err
	}
	layout, err := sess.Layout()
	if err != nil {
		return domain.Selection{}, nil, err
	}
	return sel, layout, nil
}
