// Package config provides configuration loading and the output layout of the
// flowcell tool.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (flowcell.yaml or --config)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FLOWCELL_<SECTION>_<FIELD>:
//
//	FLOWCELL_LOGGING_LEVEL=debug
//	FLOWCELL_ANALYSIS_MIN_CYCLE=2
//	FLOWCELL_ANALYSIS_HEIGHT_DELTAS=0,0.1,0.2
//	FLOWCELL_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Output Layout
//
// Layout is the single source of truth for artifact locations below the
// user-chosen output folder:
//
//	layout, err := config.NewLayout("/data/run-42")
//	path := layout.FolderSummaryPath() // /data/run-42/summary/folder data summary.xlsx
package config
