package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
)

// Manager writes artifacts below one output layout
type Manager struct {
	layout *config.Layout
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(layout *config.Layout, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{layout: layout, logger: logger}
}

// Layout returns the output layout the manager writes into
func (m *Manager) Layout() *config.Layout {
	return m.layout
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	m.logger.Debug("Ensuring directory exists", slog.String("full_path", fullPath))

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", fullPath), err)
	}
	return nil
}

// WriteAtomic streams an artifact into a temporary sibling of path and renames
// it into place once write succeeded. On failure the temporary file is removed
// and whatever was at path before is left untouched.
func (m *Manager) WriteAtomic(path string, write func(w io.Writer) error) error {
	fullPath := m.resolvePath(path)
	dir := filepath.Dir(fullPath)

	if err := m.EnsureDirectory(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create temporary file in %s", dir), err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error, msg string) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.NewStorageError(msg, cause).WithContext("path", fullPath)
	}

	if err := write(tmp); err != nil {
		return cleanup(err, fmt.Sprintf("failed to write %s", fullPath))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, fmt.Sprintf("failed to sync %s", fullPath))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", tmpName), err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to set permissions on %s", tmpName), err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", fullPath), err)
	}

	m.logger.Info("Artifact written", slog.String("path", fullPath))
	return nil
}

// resolvePath resolves a path relative to the output directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.layout == nil {
		return path
	}
	return filepath.Join(m.layout.OutputDir, path)
}
