package files

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"flowcellcli/internal/config"
	apperrors "flowcellcli/internal/errors"
	"flowcellcli/pkg/contracts/domain"
)

// Resolver turns a file list or a folder into ordered experiment records.
type Resolver struct {
	suffixLength  int
	suffixPattern *regexp.Regexp
	logger        *slog.Logger
}

// NewResolver creates a resolver using the naming rules from cfg
func NewResolver(cfg config.AnalysisConfig, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SuffixLength <= 0 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("suffix length must be positive, got %d", cfg.SuffixLength), nil)
	}
	pattern, err := regexp.Compile(cfg.SuffixPattern)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid suffix pattern", err)
	}
	return &Resolver{
		suffixLength:  cfg.SuffixLength,
		suffixPattern: pattern,
		logger:        logger,
	}, nil
}

// IsRawDataFile reports whether a directory entry is a raw data file: a regular
// file whose name has no "." anywhere (no extension, not hidden).
func IsRawDataFile(entry fs.DirEntry) bool {
	if entry == nil || !entry.Type().IsRegular() {
		return false
	}
	return !strings.Contains(entry.Name(), ".")
}

// ExperimentName strips the device designation suffix from a raw file name.
// "sample1_PO" becomes "sample1".
func (r *Resolver) ExperimentName(fileName string) (string, error) {
	runes := []rune(fileName)
	if len(runes) <= r.suffixLength {
		return "", apperrors.NewSelectionError(
			fmt.Sprintf("file name %q is too short for a %d character suffix", fileName, r.suffixLength),
			apperrors.ErrInvalidExperimentName).WithContext("file", fileName)
	}

	cut := len(runes) - r.suffixLength
	suffix := string(runes[cut:])
	if !r.suffixPattern.MatchString(suffix) {
		return "", apperrors.NewSelectionError(
			fmt.Sprintf("suffix %q of %q does not match %s", suffix, fileName, r.suffixPattern),
			apperrors.ErrInvalidExperimentName).WithContext("file", fileName)
	}
	return string(runes[:cut]), nil
}

// ResolveFiles builds records for an explicit file list, keeping its order.
func (r *Resolver) ResolveFiles(paths []string) ([]domain.ExperimentRecord, error) {
	if len(paths) == 0 {
		return nil, apperrors.NewSelectionError("no files given", apperrors.ErrNoSelection)
	}

	records := make([]domain.ExperimentRecord, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, apperrors.NewSelectionError(fmt.Sprintf("cannot read %s", p), err)
		}
		if info.IsDir() {
			return nil, apperrors.NewSelectionError(fmt.Sprintf("%s is a directory, expected a raw data file", p), nil)
		}

		record, err := r.record(p)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	r.logger.Debug("Resolved file selection", slog.Int("records", len(records)))
	return records, nil
}

// ResolveFolder builds records for every raw data file directly inside dir,
// in directory listing order.
func (r *Resolver) ResolveFolder(dir string) ([]domain.ExperimentRecord, error) {
	if dir == "" {
		return nil, apperrors.NewSelectionError("no folder given", apperrors.ErrNoSelection)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewSelectionError(fmt.Sprintf("failed to read directory %s", dir), err)
	}

	var records []domain.ExperimentRecord
	for _, entry := range entries {
		if !IsRawDataFile(entry) {
			r.logger.Debug("Skipping non raw data entry", slog.String("name", entry.Name()))
			continue
		}
		record, err := r.record(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, apperrors.NewSelectionError(fmt.Sprintf("no raw data files in %s", dir), apperrors.ErrNoSelection)
	}

	r.logger.Debug("Resolved folder selection",
		slog.String("folder", dir),
		slog.Int("records", len(records)))
	return records, nil
}

func (r *Resolver) record(path string) (domain.ExperimentRecord, error) {
	base := filepath.Base(path)
	name, err := r.ExperimentName(base)
	if err != nil {
		return domain.ExperimentRecord{}, err
	}
	return domain.ExperimentRecord{Name: name, Path: path, FileName: base}, nil
}
