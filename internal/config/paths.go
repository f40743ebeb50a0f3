package config

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Layout contains all the paths produced below one output folder.
// This is the single source of truth for where artifacts are written.
//
//	<output>/
//	  ├── summary/          (summary workbooks)
//	  ├── figures/          (time-series figures)
//	  │   └── boxplot/      (boxplot images)
//	  └── temp/temp.xlsx    (diagnostic boxplot table)
type Layout struct {
	OutputDir    string
	SummaryDir   string
	FiguresDir   string
	BoxplotDir   string
	TempDir      string
	TempWorkbook string
}

// NewLayout returns the layout rooted at outputDir.
func NewLayout(outputDir string) (*Layout, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is empty")
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", outputDir, err)
	}

	figures := filepath.Join(abs, FiguresDirName)
	temp := filepath.Join(abs, TempDirName)

	return &Layout{
		OutputDir:    abs,
		SummaryDir:   filepath.Join(abs, SummaryDirName),
		FiguresDir:   figures,
		BoxplotDir:   filepath.Join(figures, BoxplotDirName),
		TempDir:      temp,
		TempWorkbook: filepath.Join(temp, TempWorkbookName),
	}, nil
}

// FileSummaryPath returns the workbook path for a files selection, named after
// the last processed experiment.
func (l *Layout) FileSummaryPath(lastExperiment string) string {
	return filepath.Join(l.SummaryDir, FileSummaryNamePrefix+lastExperiment+".xlsx")
}

// FolderSummaryPath returns the workbook path for a folder selection
func (l *Layout) FolderSummaryPath() string {
	return filepath.Join(l.SummaryDir, FolderSummaryName+".xlsx")
}

// BoxplotPath returns the image path for one metric and height delta.
func (l *Layout) BoxplotPath(metric string, heightDelta float64) string {
	name := fmt.Sprintf("boxplot %s deltah=%s.png", metric, FormatHeightDelta(heightDelta))
	return filepath.Join(l.BoxplotDir, name)
}

// FormatHeightDelta renders a height delta the way it appears in file names (0, 0.1, 0.2).
func FormatHeightDelta(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
