// Package session holds the state one CLI invocation works on: the output
// folder and the current experiment selection. Every change is an explicit
// transition recorded in an audit trail.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// Resolver resolves user selections into experiment records
type Resolver interface {
	ResolveFiles(paths []string) ([]domain.ExperimentRecord, error)
	ResolveFolder(dir string) ([]domain.ExperimentRecord, error)
}

// TransitionKind names a session transition
type TransitionKind string

const (
	TransitionSelectFiles  TransitionKind = "select_files"
	TransitionSelectFolder TransitionKind = "select_folder"
	TransitionOutputFolder TransitionKind = "set_output_folder"
)

// Transition is one entry of the session audit trail
type Transition struct {
	Kind    TransitionKind `json:"kind"`
	At      time.Time      `json:"at"`
	Source  string         `json:"source"`
	Records int            `json:"records"`
	// Replaced is the number of records of the selection that was discarded.
	Replaced int `json:"replaced"`
}

// Session is the explicit replacement for UI-bound selection fields.
type Session struct {
	mu sync.RWMutex

	ID        string
	resolver  Resolver
	logger    *slog.Logger
	layout    *config.Layout
	selection domain.Selection
	history   []Transition
	now       func() time.Time
}

// New creates an empty session
func New(id string, resolver Resolver, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:       id,
		resolver: resolver,
		logger:   logger.With("session_id", id),
		now:      time.Now,
	}
}

// SelectFiles replaces the current selection with an explicit file list.
// A failed resolution leaves the previous selection in place.
func (s *Session) SelectFiles(paths []string) error {
	records, err := s.resolver.ResolveFiles(paths)
	if err != nil {
		return err
	}
	s.replace(domain.Selection{Kind: domain.SelectionFiles, Records: records}, TransitionSelectFiles, fmt.Sprintf("%d files", len(paths)))
	return nil
}

// SelectFolder replaces the current selection with the raw data files of dir.
func (s *Session) SelectFolder(dir string) error {
	records, err := s.resolver.ResolveFolder(dir)
	if err != nil {
		return err
	}
	s.replace(domain.Selection{Kind: domain.SelectionFolder, Source: dir, Records: records}, TransitionSelectFolder, dir)
	return nil
}

func (s *Session) replace(sel domain.Selection, kind TransitionKind, source string) {
	s.mu.Lock()
	replaced := len(s.selection.Records)
	s.selection = sel
	s.history = append(s.history, Transition{
		Kind:     kind,
		At:       s.now(),
		Source:   source,
		Records:  len(sel.Records),
		Replaced: replaced,
	})
	s.mu.Unlock()

	s.logger.Info("Selection replaced",
		slog.String("kind", string(sel.Kind)),
		slog.String("source", source),
		slog.Int("records", len(sel.Records)),
		slog.Int("replaced", replaced))
}

// SetOutputFolder sets where artifacts are written.
func (s *Session) SetOutputFolder(dir string) error {
	layout, err := config.NewLayout(dir)
	if err != nil {
		return apperrors.NewSelectionError("invalid output folder", err)
	}

	s.mu.Lock()
	s.layout = layout
	s.history = append(s.history, Transition{
		Kind:   TransitionOutputFolder,
		At:     s.now(),
		Source: layout.OutputDir,
	})
	s.mu.Unlock()

	s.logger.Info("Output folder set", slog.String("output_dir", layout.OutputDir))
	return nil
}

// Selection returns the current selection or ErrNoSelection.
func (s *Session) Selection() (domain.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection.IsEmpty() {
		return domain.Selection{}, apperrors.NewSelectionError("select files or a folder first", apperrors.ErrNoSelection)
	}
	sel := s.selection
	sel.Records = append([]domain.ExperimentRecord(nil), s.selection.Records...)
	return sel, nil
}

// OutputFolder returns the output folder or ErrNoOutputFolder.
func (s *Session) OutputFolder() (string, error) {
	layout, err := s.Layout()
	if err != nil {
		return "", err
	}
	return layout.OutputDir, nil
}

// Layout returns the output layout or ErrNoOutputFolder.
func (s *Session) Layout() (*config.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.layout == nil {
		return nil, apperrors.NewSelectionError("select an output folder first", apperrors.ErrNoOutputFolder)
	}
	return s.layout, nil
}

// History returns a copy of the audit trail, oldest first
func (s *Session) History() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transition(nil), s.history...)
}
