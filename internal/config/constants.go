package config

import "flowcellcli/pkg/contracts"

// Application constants
const (
	AppName    = "flowcell"
	AppVersion = contracts.Version

	// Experiment naming
	DefaultSuffixLength  = 3
	DefaultSuffixPattern = "^_[A-Za-z0-9]{2}$"

	// Boxplots and figures of merit ignore the start-up transient
	DefaultMinCycle = 2

	// L/h/m² of hydrostatic back flow per metre of height delta
	DefaultHeadCoefficient = 10.0

	// Output layout below the chosen output folder
	SummaryDirName   = "summary"
	FiguresDirName   = "figures"
	BoxplotDirName   = "boxplot"
	TempDirName      = "temp"
	TempWorkbookName = "temp.xlsx"

	// Summary workbook names
	FolderSummaryName     = "folder data summary"
	FileSummaryNamePrefix = "data summary "

	// Width used when wrapping selected names for display
	DisplayWrapWidth = 60
)

// DefaultHeightDeltas are the accepted height delta values in metres.
var DefaultHeightDeltas = []float64{0, 0.1, 0.2}
