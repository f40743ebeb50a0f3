package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"flowcellcli/internal/config"
	"flowcellcli/internal/infrastructure"
)

// Dependencies are the collaborators of a Service
type Dependencies struct {
	Calculator Calculator
	Samples    SampleSource
	Writer     SummaryWriter
	Renderer   PlotRenderer
	Tracer     *OperationTracer
	Analysis   config.AnalysisConfig
	Plot       config.PlotConfig
	Logger     *slog.Logger
}

// Service runs the summary, plot and boxplot operations on a session.
// Operations are sequential; only the boxplot figures are rendered concurrently.
type Service struct {
	calc     Calculator
	samples  SampleSource
	writer   SummaryWriter
	renderer PlotRenderer
	tracer   *OperationTracer
	analysis config.AnalysisConfig
	plot     config.PlotConfig
	logger   *slog.Logger
}

// NewService creates a service from its dependencies
func NewService(deps Dependencies) (*Service, error) {
	switch {
	case deps.Calculator == nil:
		return nil, errors.New("calculator is required")
	case deps.Samples == nil:
		return nil, errors.New("sample source is required")
	case deps.Writer == nil:
		return nil, errors.New("summary writer is required")
	case deps.Renderer == nil:
		return nil, errors.New("plot renderer is required")
	}

	tracer := deps.Tracer
	if tracer == nil {
		var err error
		if tracer, err = NewOperationTracer(nil); err != nil {
			return nil, err
		}
	}
	return &Service{
		calc:     deps.Calculator,
		samples:  deps.Samples,
		writer:   deps.Writer,
		renderer: deps.Renderer,
		tracer:   tracer,
		analysis: deps.Analysis,
		plot:     deps.Plot,
		logger:   infrastructure.WithComponent(deps.Logger, "operations"),
	}, nil
}

// run tracks one operation: its steps, span and result
type run struct {
	svc    *Service
	ctx    context.Context
	span   trace.Span
	start  time.Time
	result *Result
	logger *slog.Logger
}

func (s *Service) begin(ctx context.Context, operation string) *run {
	ctx, span := s.tracer.TraceOperation(ctx, operation)
	s.logger.InfoContext(ctx, "Operation started", slog.String("operation", operation))
	return &run{
		svc:    s,
		ctx:    ctx,
		span:   span,
		start:  time.Now(),
		result: &Result{Operation: operation},
		logger: s.logger.With("operation", operation),
	}
}

// step runs fn as the named step. fn returns a short message for the status
// table. A failed step stops the operation.
func (r *run) step(name string, fn func(ctx context.Context) (string, error)) error {
	state := NewStepState(name)
	r.result.Steps = append(r.result.Steps, state)

	if err := r.ctx.Err(); err != nil {
		opErr := NewCancellationError(r.result.Operation, name, err)
		state.Fail(opErr)
		return opErr
	}

	ctx, span := r.svc.tracer.TraceStep(r.ctx, r.result.Operation, name)
	state.Start()

	msg, err := fn(ctx)
	r.svc.tracer.RecordStepCompletion(span, err)
	if err != nil {
		opErr := WrapStepError(err, r.result.Operation, name)
		state.Fail(opErr)
		r.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", name),
			slog.String("error_type", string(opErr.Type)),
			slog.String("error", err.Error()))
		return opErr
	}

	state.Complete(msg)
	r.logger.InfoContext(ctx, "Step completed",
		slog.String("step", name),
		slog.String("message", msg),
		slog.Duration("duration", state.Duration()))
	return nil
}

// artifact records a written file
func (r *run) artifact(ctx context.Context, kind, path string) {
	r.result.Artifacts = append(r.result.Artifacts, path)
	r.svc.tracer.RecordArtifact(ctx, r.result.Operation, kind, path)
}

func (r *run) finish(err error) (*Result, error) {
	r.result.Duration = time.Since(r.start)
	r.svc.tracer.RecordOperationCompletion(r.ctx, r.span, r.result, err)

	if err != nil {
		r.logger.ErrorContext(r.ctx, "Operation failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", r.result.Duration))
		return r.result, err
	}
	r.logger.InfoContext(r.ctx, "Operation completed",
		slog.Int("experiments", r.result.Experiments),
		slog.Int("artifacts", len(r.result.Artifacts)),
		slog.Duration("duration", r.result.Duration))
	return r.result, nil
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
