package operations

import (
	"context"

	"flowcellcli/internal/config"
	"flowcellcli/internal/plotting"
	"flowcellcli/pkg/contracts/domain"
)

// FilePlots draws the cycle average figures of the selection and one
// snapshot per experiment into the figures directory.
func (s *Service) FilePlots(ctx context.Context, sess SessionState) (*Result, error) {
	r := s.begin(ctx, OperationFilePlots)

	var (
		sel         domain.Selection
		layout      *config.Layout
		experiments []plotting.ExperimentSamples
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

	err = r.step(StepLoadSamples, func(ctx context.Context) (string, error) {
		rows := 0
		for _, rec := range sel.Records {
			samples, err := s.samples.Samples(ctx, rec)
			if err != nil {
				return "", err
			}
			experiments = append(experiments, plotting.ExperimentSamples{Name: rec.Name, Samples: samples})
			rows += len(samples)
		}
		r.result.Rows = rows
		s.tracer.RecordExperiments(ctx, OperationFilePlots, len(experiments))
		return plural(rows, "sample"), nil
	})
	if err != nil {
		return r.finish(err)
	}

	err = r.step(StepPlot, func(ctx context.Context) (string, error) {
		paths, err := s.renderer.CycleAverage(layout.FiguresDir, experiments)
		if err != nil {
			return "", err
		}
		for _, p := range paths {
			r.artifact(ctx, "figure", p)
		}
		for _, exp := range experiments {
			path, err := s.renderer.Snapshot(layout.FiguresDir, exp)
			if err != nil {
				return "", err
			}
			r.artifact(ctx, "figure", path)
		}
		return plural(len(r.result.Artifacts), "figure"), nil
	})
	return r.finish(err)
}
