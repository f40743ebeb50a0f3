package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces all environment overrides, e.g. FLOWCELL_LOGGING_LEVEL.
const EnvPrefix = "FLOWCELL"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Plot      PlotConfig      `yaml:"plot" envconfig:"PLOT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// AnalysisConfig controls experiment naming and the flow calculations.
type AnalysisConfig struct {
	// SuffixLength is the width of the device designation at the end of a raw file name.
	SuffixLength int `yaml:"suffix_length" envconfig:"SUFFIX_LENGTH" validate:"min=1,max=16"`
	// SuffixPattern must match the stripped suffix, e.g. "_PO".
	SuffixPattern string `yaml:"suffix_pattern" envconfig:"SUFFIX_PATTERN" validate:"required"`
	// MinCycle drops the early transient cycles from boxplots and figures of merit.
	MinCycle int `yaml:"min_cycle" envconfig:"MIN_CYCLE" validate:"min=0"`
	// HeightDeltas lists the accepted height delta values in metres.
	HeightDeltas []float64 `yaml:"height_deltas" envconfig:"HEIGHT_DELTAS" validate:"min=1,dive,min=0"`
	// HeadCoefficient converts a height delta (m) into a flow offset (L/h/m²).
	HeadCoefficient float64 `yaml:"head_coefficient" envconfig:"HEAD_COEFFICIENT"`
	// Columns maps the logical raw data columns to header names.
	Columns ColumnConfig `yaml:"columns" envconfig:"COLUMNS"`
}

// ColumnConfig names the raw data header for every logical column
type ColumnConfig struct {
	Time    string `yaml:"time" envconfig:"TIME" validate:"required"`
	Flow    string `yaml:"flow" envconfig:"FLOW" validate:"required"`
	Current string `yaml:"current" envconfig:"CURRENT" validate:"required"`
	Voltage string `yaml:"voltage" envconfig:"VOLTAGE" validate:"required"`
	Cycle   string `yaml:"cycle" envconfig:"CYCLE" validate:"required"`
}

// PlotConfig contains figure geometry in pixels
type PlotConfig struct {
	BoxplotWidthPerExperiment int `yaml:"boxplot_width_per_experiment" envconfig:"BOXPLOT_WIDTH_PER_EXPERIMENT" validate:"min=20"`
	BoxplotHeight             int `yaml:"boxplot_height" envconfig:"BOXPLOT_HEIGHT" validate:"min=100"`
	SeriesWidth               int `yaml:"series_width" envconfig:"SERIES_WIDTH" validate:"min=200"`
	SeriesHeight              int `yaml:"series_height" envconfig:"SERIES_HEIGHT" validate:"min=100"`
}

// TelemetryConfig contains tracing and run metrics configuration
type TelemetryConfig struct {
	TraceExporter   string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	SampleRatio     float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
	MetricsTextfile string  `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/flowcell.log",
		},
		Analysis: AnalysisConfig{
			SuffixLength:    DefaultSuffixLength,
			SuffixPattern:   DefaultSuffixPattern,
			MinCycle:        DefaultMinCycle,
			HeightDeltas:    append([]float64(nil), DefaultHeightDeltas...),
			HeadCoefficient: DefaultHeadCoefficient,
			Columns: ColumnConfig{
				Time:    "time",
				Flow:    "flow",
				Current: "current",
				Voltage: "voltage",
				Cycle:   "cycle",
			},
		},
		Plot: PlotConfig{
			BoxplotWidthPerExperiment: 100,
			BoxplotHeight:             400,
			SeriesWidth:               1000,
			SeriesHeight:              500,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			SampleRatio:   1.0,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// FLOWCELL_* environment variables, in that order of precedence (env wins).
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching env var are left untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	if _, err := regexp.Compile(c.Analysis.SuffixPattern); err != nil {
		return fmt.Errorf("invalid suffix pattern %q: %w", c.Analysis.SuffixPattern, err)
	}

	hasZero := false
	for _, d := range c.Analysis.HeightDeltas {
		if d == 0 {
			hasZero = true
		}
	}
	if !hasZero {
		// 0 is the fallback for rejected height deltas and must stay accepted.
		return fmt.Errorf("height deltas %v must include 0", c.Analysis.HeightDeltas)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"flowcell.yaml",
		"configs/flowcell.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}
