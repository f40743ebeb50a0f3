// Package operations runs the user-facing operations of the tool on a
// session: file summary, folder summary, file plots and boxplot.
//
// Each operation is a fixed sequence of named steps. A step moves from
// pending to active to completed or failed; the first failure stops the
// operation and comes back as an *OperationError naming the step. The
// Result carries every step state so callers can print a status table.
//
// Collaborators are interfaces:
//
//	Calculator    per-experiment metric tables and boxplot rows
//	SampleSource  raw time series for figures
//	SummaryWriter workbook artifacts
//	PlotRenderer  figure artifacts
//
// Every operation and step gets a span, and run counters (experiments,
// rows, artifacts, duration) are recorded through OperationTracer.
//
// Example usage:
//
//	svc, err := operations.NewService(operations.Dependencies{
//		Calculator: calc,
//		Samples:    calc,
//		Writer:     workbook,
//		Renderer:   renderer,
//		Tracer:     tracer,
//		Analysis:   cfg.Analysis,
//	})
//	result, err := svc.Boxplot(ctx, sess, operations.BoxplotOptions{Prompter: term})
package operations
