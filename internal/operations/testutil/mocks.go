package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"flowcellcli/internal/config"
	"flowcellcli/internal/plotting"
	"flowcellcli/pkg/contracts/domain"
)

// MockCalculator returns canned tables per experiment name and records calls
type MockCalculator struct {
	// Tables per experiment; missing experiments get FlowTables(name, 3).
	Tables map[string]domain.MetricSet
	// Boxplot rows per experiment; missing experiments get BoxplotRows(1,2,3).
	Boxplot map[string][]domain.BoxplotRow
	// Fail makes every call for that experiment return the error.
	Fail map[string]error

	mu           sync.Mutex
	Calls        []string
	HeightDeltas []float64
}

func (m *MockCalculator) record(call string, rec domain.ExperimentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call+" "+rec.Name)
	return m.Fail[rec.Name]
}

func (m *MockCalculator) table(rec domain.ExperimentRecord, c domain.Category) *domain.Table {
	if set, ok := m.Tables[rec.Name]; ok {
		return set[c]
	}
	return FlowTables(3)[c]
}

// MeanFlow returns the flow and power table of rec
func (m *MockCalculator) MeanFlow(_ context.Context, rec domain.ExperimentRecord) (*domain.Table, error) {
	if err := m.record("mean_flow", rec); err != nil {
		return nil, err
	}
	return m.table(rec, domain.CategoryFlowPower), nil
}

// EOFlow returns the pulse and cycle table of rec
func (m *MockCalculator) EOFlow(_ context.Context, rec domain.ExperimentRecord) (*domain.Table, error) {
	if err := m.record("eo_flow", rec); err != nil {
		return nil, err
	}
	return m.table(rec, domain.CategoryPulseCycle), nil
}

// FigureOfMerit returns the figures of merit table of rec
func (m *MockCalculator) FigureOfMerit(_ context.Context, rec domain.ExperimentRecord) (*domain.Table, error) {
	if err := m.record("figure_of_merit", rec); err != nil {
		return nil, err
	}
	return m.table(rec, domain.CategoryFigureMerit), nil
}

// BoxplotData returns the boxplot rows of rec
func (m *MockCalculator) BoxplotData(_ context.Context, rec domain.ExperimentRecord, heightDelta float64) ([]domain.BoxplotRow, error) {
	if err := m.record("boxplot_data", rec); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.HeightDeltas = append(m.HeightDeltas, heightDelta)
	m.mu.Unlock()

	if rows, ok := m.Boxplot[rec.Name]; ok {
		return rows, nil
	}
	return BoxplotRows(heightDelta, 1, 2, 3), nil
}

// Samples returns a short series for every experiment
func (m *MockCalculator) Samples(_ context.Context, rec domain.ExperimentRecord) ([]domain.Sample, error) {
	if err := m.record("samples", rec); err != nil {
		return nil, err
	}
	return []domain.Sample{
		{Time: 0, Flow: 1, Current: 2, Voltage: 1, Cycle: 1},
		{Time: 1, Flow: -1, Current: -2, Voltage: -1, Cycle: 1},
	}, nil
}

// MockWriter records what would be written
type MockWriter struct {
	Err error

	mu        sync.Mutex
	Summaries map[string]domain.Summary
	Tables    map[string]*domain.Table
}

// WriteSummary records summary under path
func (w *MockWriter) WriteSummary(path string, summary domain.Summary) error {
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Summaries == nil {
		w.Summaries = make(map[string]domain.Summary)
	}
	w.Summaries[path] = summary
	return nil
}

// WriteTable records table under path
func (w *MockWriter) WriteTable(path, _ string, table *domain.Table) error {
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Tables == nil {
		w.Tables = make(map[string]*domain.Table)
	}
	w.Tables[path] = table
	return nil
}

// MockRenderer records figure requests. It is safe for concurrent use.
type MockRenderer struct {
	Err error

	mu       sync.Mutex
	Boxplots map[string]plotting.BoxplotSpec
	Series   [][]plotting.ExperimentSamples
	Snaps    []string
}

// Boxplot records spec under path
func (r *MockRenderer) Boxplot(path string, spec plotting.BoxplotSpec) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Boxplots == nil {
		r.Boxplots = make(map[string]plotting.BoxplotSpec)
	}
	r.Boxplots[path] = spec
	return nil
}

// CycleAverage records the experiments and returns the two figure paths
func (r *MockRenderer) CycleAverage(dir string, experiments []plotting.ExperimentSamples) ([]string, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Series = append(r.Series, experiments)
	return []string{
		filepath.Join(dir, plotting.CycleAverageFlowName),
		filepath.Join(dir, plotting.CycleAverageCurrentName),
	}, nil
}

// Snapshot records the experiment name
func (r *MockRenderer) Snapshot(dir string, exp plotting.ExperimentSamples) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Snaps = append(r.Snaps, exp.Name)
	return filepath.Join(dir, fmt.Sprintf(plotting.SnapshotNameFormat, exp.Name)), nil
}

// StaticSession is a fixed selection and layout
type StaticSession struct {
	Sel       domain.Selection
	Out       *config.Layout
	SelErr    error
	LayoutErr error
}

// Selection returns Sel or SelErr
func (s *StaticSession) Selection() (domain.Selection, error) {
	return s.Sel, s.SelErr
}

// Layout returns Out or LayoutErr
func (s *StaticSession) Layout() (*config.Layout, error) {
	return s.Out, s.LayoutErr
}

// ScriptedPrompter answers from fixed lists and records the questions
type ScriptedPrompter struct {
	Confirms []bool
	Floats   []float64
	Strings  []string
	Err      error

	Asked   []string
	Notices []string
}

// Confirm pops the next confirm answer
func (p *ScriptedPrompter) Confirm(_ context.Context, q string) (bool, error) {
	p.Asked = append(p.Asked, q)
	if p.Err != nil {
		return false, p.Err
	}
	if len(p.Confirms) == 0 {
		return false, nil
	}
	v := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return v, nil
}

// AskFloat pops the next number
func (p *ScriptedPrompter) AskFloat(_ context.Context, q string) (float64, error) {
	p.Asked = append(p.Asked, q)
	if p.Err != nil {
		return 0, p.Err
	}
	if len(p.Floats) == 0 {
		return 0, nil
	}
	v := p.Floats[0]
	p.Floats = p.Floats[1:]
	return v, nil
}

// AskString pops the next text answer
func (p *ScriptedPrompter) AskString(_ context.Context, q string) (string, error) {
	p.Asked = append(p.Asked, q)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Strings) == 0 {
		return "", nil
	}
	v := p.Strings[0]
	p.Strings = p.Strings[1:]
	return v, nil
}

// Notify records a notice
func (p *ScriptedPrompter) Notify(_ context.Context, m string) error {
	p.Notices = append(p.Notices, m)
	return nil
}
