package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flowcell.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Analysis.SuffixLength)
	assert.Equal(t, 2, cfg.Analysis.MinCycle)
	assert.Equal(t, []float64{0, 0.1, 0.2}, cfg.Analysis.HeightDeltas)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.Equal(t, 100, cfg.Plot.BoxplotWidthPerExperiment)
	assert.Equal(t, 400, cfg.Plot.BoxplotHeight)
}

func TestDefault_DoesNotShareHeightDeltas(t *testing.T) {
	cfg := Default()
	cfg.Analysis.HeightDeltas[1] = 5

	assert.Equal(t, 0.1, DefaultHeightDeltas[1])
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults only",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "file overrides defaults",
			file: "logging:\n  level: debug\nanalysis:\n  min_cycle: 3\nplot:\n  boxplot_height: 600\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 3, cfg.Analysis.MinCycle)
				assert.Equal(t, 600, cfg.Plot.BoxplotHeight)
				// untouched sections keep defaults
				assert.Equal(t, "flow", cfg.Analysis.Columns.Flow)
			},
		},
		{
			name: "env overrides file",
			file: "logging:\n  level: debug\n",
			env: map[string]string{
				"FLOWCELL_LOGGING_LEVEL":          "warn",
				"FLOWCELL_ANALYSIS_HEIGHT_DELTAS": "0,0.5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, []float64{0, 0.5}, cfg.Analysis.HeightDeltas)
			},
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"FLOWCELL_LOGGING_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "height deltas without zero",
			file:    "analysis:\n  height_deltas: [0.1, 0.2]\n",
			wantErr: true,
		},
		{
			name:    "bad suffix pattern",
			file:    "analysis:\n  suffix_pattern: \"([\"\n",
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"FLOWCELL_TELEMETRY_TRACE_EXPORTER": "otlp"},
			wantErr: true,
		},
		{
			name:    "file output without path",
			file:    "logging:\n  output: file\n  file_path: \"\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
