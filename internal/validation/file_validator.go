package validation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/internal/files"
)

// FileValidator checks input and output locations before an operation runs
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory checks that dir is a readable directory and
// returns how many raw data files it holds. An empty folder is not an error
// here; the selection reports it.
func (v *FileValidator) ValidateInputDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return 0, apperrors.NewValidationError(fmt.Sprintf("input directory %s does not exist", dir), err)
	}
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("failed to list %s", dir), err)
	}
	count := 0
	for _, e := range entries {
		if files.IsRawDataFile(e) {
			count++
		}
	}

	if count == 0 {
		v.logger.Warn("No raw data files found", slog.String("directory", dir))
	} else {
		v.logger.Info("Input directory validated",
			slog.String("directory", dir),
			slog.Int("files_found", count))
	}
	return count, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	file, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(file.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateRawFile checks that path is a readable, non-empty regular file
// without an extension.
func (v *FileValidator) ValidateRawFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewValidationError(fmt.Sprintf("file %s does not exist", path), err)
	}
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if !info.Mode().IsRegular() {
		v.logger.Error("Path is not a regular file",
			slog.String("path", path))
		return apperrors.NewValidationError(fmt.Sprintf("%s is not a regular file", path), nil)
	}
	if ext := filepath.Ext(path); ext != "" {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s has extension %s; raw data files have none", filepath.Base(path), ext), nil)
	}
	if info.Size() == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("file %s is empty", path), nil)
	}

	// Check if file is readable by reading its first byte
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewValidationError(fmt.Sprintf("file %s is not readable", path), err)
	}
	defer file.Close()
	if _, err := file.Read(make([]byte, 1)); err != nil && err != io.EOF {
		return apperrors.NewValidationError(fmt.Sprintf("file %s is not readable", path), err)
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}
