package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcellcli/internal/config"
	"flowcellcli/internal/operations"
	"flowcellcli/internal/operations/testutil"
	"flowcellcli/pkg/contracts/domain"
)

type fixture struct {
	svc      *operations.Service
	calc     *testutil.MockCalculator
	writer   *testutil.MockWriter
	renderer *testutil.MockRenderer
	layout   *config.Layout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		calc:     &testutil.MockCalculator{},
		writer:   &testutil.MockWriter{},
		renderer: &testutil.MockRenderer{},
		layout:   testutil.Layout(t),
	}
	cfg := config.Default()
	svc, err := operations.NewService(operations.Dependencies{
		Calculator: f.calc,
		Samples:    f.calc,
		Writer:     f.writer,
		Renderer:   f.renderer,
		Analysis:   cfg.Analysis,
		Plot:       cfg.Plot,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

// session returns a session over sample1_PO and sample2_WY
func (f *fixture) session(kind domain.SelectionKind) *testutil.StaticSession {
	return &testutil.StaticSession{
		Sel: domain.Selection{
			Kind:    kind,
			Records: testutil.Records("/data", "sample1_PO", "sample2_WY"),
		},
		Out: f.layout,
	}
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	calc := &testutil.MockCalculator{}
	tests := []struct {
		name string
		deps operations.Dependencies
	}{
		{"no calculator", operations.Dependencies{Samples: calc, Writer: &testutil.MockWriter{}, Renderer: &testutil.MockRenderer{}}},
		{"no samples", operations.Dependencies{Calculator: calc, Writer: &testutil.MockWriter{}, Renderer: &testutil.MockRenderer{}}},
		{"no writer", operations.Dependencies{Calculator: calc, Samples: calc, Renderer: &testutil.MockRenderer{}}},
		{"no renderer", operations.Dependencies{Calculator: calc, Samples: calc, Writer: &testutil.MockWriter{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := operations.NewService(tt.deps)
			assert.Error(t, err)
		})
	}
}
