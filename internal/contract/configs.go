package contract

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/huangsam/likeplot/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 6
	DefaultAddr      = "127.0.0.1:8080"
	DefaultOutDir    = "."
)

// hexColorRegex matches #rgb and #rrggbb colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// DatasetConfig names the input file and the columns one chart reads.
// Unused columns are empty.
type DatasetConfig struct {
	File     string
	Group    string
	Subgroup string
	Value    string
	Date     string
}

// Margins are the chart paddings in pixels.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// ChartConfig is the explicit rendering state handed to a RenderSink.
type ChartConfig struct {
	Width   int
	Height  int
	Margins Margins
	Title   string
	XLabel  string
	YLabel  string
	Format  schema.ImageFormat
	Palette []string
}

// DefaultChartConfig returns the canvas size, margins and axis labels of a chart kind.
func DefaultChartConfig(kind schema.ChartKind) ChartConfig {
	switch kind {
	case schema.BarChartChart:
		return ChartConfig{
			Width: 900, Height: 400,
			Margins: Margins{Top: 40, Right: 160, Bottom: 70, Left: 60},
			Title:   "Average Likes by Platform and Post Type",
			XLabel:  "Platform", YLabel: "Average Likes",
			Format: schema.SVGFormat,
		}
	case schema.LineChart:
		return ChartConfig{
			Width: 900, Height: 350,
			Margins: Margins{Top: 30, Right: 30, Bottom: 90, Left: 60},
			Title:   "Average Likes over Time",
			XLabel:  "Date", YLabel: "Average Likes",
			Format: schema.SVGFormat,
		}
	default:
		return ChartConfig{
			Width: 800, Height: 400,
			Margins: Margins{Top: 30, Right: 30, Bottom: 70, Left: 60},
			Title:   "Likes by Age Group",
			XLabel:  "Age Group", YLabel: "Likes",
			Format: schema.SVGFormat,
		}
	}
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	BoxPlot  DatasetConfig
	BarChart DatasetConfig
	Line     DatasetConfig

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	Verbose    bool
	Palette    []string

	Format schema.ImageFormat
	OutDir string
	Addr   string

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output        string `mapstructure:"output"`
	OutputFile    string `mapstructure:"output-file"`
	Precision     int    `mapstructure:"precision"`
	Width         int    `mapstructure:"width"`
	Color         string `mapstructure:"color"`
	Verbose       bool   `mapstructure:"verbose"`
	Palette       string `mapstructure:"palette"`
	RunsBackend   string `mapstructure:"runs-backend"`
	RunsDBConnect string `mapstructure:"runs-db-connect"`

	BoxFile          string `mapstructure:"box-file"`
	BoxGroupField    string `mapstructure:"box-group-field"`
	BoxValueField    string `mapstructure:"box-value-field"`
	BarFile          string `mapstructure:"bar-file"`
	BarGroupField    string `mapstructure:"bar-group-field"`
	BarSubgroupField string `mapstructure:"bar-subgroup-field"`
	BarValueField    string `mapstructure:"bar-value-field"`
	LineFile         string `mapstructure:"line-file"`
	LineDateField    string `mapstructure:"line-date-field"`
	LineValueField   string `mapstructure:"line-value-field"`

	// --- Fields from renderCmd.Flags() ---
	Format string `mapstructure:"format"`
	OutDir string `mapstructure:"out-dir"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Palette = slices.Clone(c.Palette)
	return &clone
}

// Dataset returns the dataset configuration of a chart kind.
func (c *Config) Dataset(kind schema.ChartKind) (DatasetConfig, error) {
	switch kind {
	case schema.BoxPlotChart:
		return c.BoxPlot, nil
	case schema.BarChartChart:
		return c.BarChart, nil
	case schema.LineChart:
		return c.Line, nil
	default:
		return DatasetConfig{}, fmt.Errorf("%w: %q", schema.ErrUnknownChartKind, kind)
	}
}

// ChartConfig returns the rendering state of a chart kind with the configured palette and format.
func (c *Config) ChartConfig(kind schema.ChartKind) ChartConfig {
	cc := DefaultChartConfig(kind)
	cc.Palette = slices.Clone(c.Palette)
	if c.Format != "" {
		cc.Format = c.Format
	}
	return cc
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
// The positional input path, when present, replaces the file of kind.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, kind schema.ChartKind) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDatasets(cfg, input, kind); err != nil {
		return err
	}
	if err := processRenderInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	palette, err := ParsePalette(input.Palette)
	if err != nil {
		return fmt.Errorf("invalid --palette value: %w", err)
	}
	cfg.Palette = palette
	return nil
}

// processDatasets fills the three dataset configs, falling back to the default column names.
func processDatasets(cfg *Config, input *ConfigRawInput, kind schema.ChartKind) error {
	cfg.BoxPlot = DatasetConfig{
		File:  orDefault(input.BoxFile, schema.DefaultBoxPlotFile),
		Group: orDefault(input.BoxGroupField, schema.DefaultAgeGroupField),
		Value: orDefault(input.BoxValueField, schema.DefaultLikesField),
	}
	cfg.BarChart = DatasetConfig{
		File:     orDefault(input.BarFile, schema.DefaultBarChartFile),
		Group:    orDefault(input.BarGroupField, schema.DefaultPlatformField),
		Subgroup: orDefault(input.BarSubgroupField, schema.DefaultPostTypeField),
		Value:    orDefault(input.BarValueField, schema.DefaultAvgLikesField),
	}
	cfg.Line = DatasetConfig{
		File:  orDefault(input.LineFile, schema.DefaultLineFile),
		Date:  orDefault(input.LineDateField, schema.DefaultDateField),
		Value: orDefault(input.LineValueField, schema.DefaultAvgLikesField),
	}

	if input.InputPathStr == "" {
		return nil
	}
	switch kind {
	case schema.BoxPlotChart:
		cfg.BoxPlot.File = input.InputPathStr
	case schema.BarChartChart:
		cfg.BarChart.File = input.InputPathStr
	case schema.LineChart:
		cfg.Line.File = input.InputPathStr
	default:
		return fmt.Errorf("an input path needs a chart command, got %q", input.InputPathStr)
	}
	return nil
}

// processRenderInputs validates the render and serve settings.
func processRenderInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Format = schema.ImageFormat(strings.ToLower(orDefault(input.Format, string(schema.SVGFormat))))
	if _, ok := schema.ValidImageFormats[cfg.Format]; !ok {
		return fmt.Errorf("invalid format '%s'. must be svg, png", input.Format)
	}
	cfg.OutDir = orDefault(input.OutDir, DefaultOutDir)
	cfg.Addr = orDefault(input.Addr, DefaultAddr)
	return nil
}

// validateBackendConfig validates the run history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.RunsBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// ParseBackend converts a backend name to a DatabaseBackend. Empty means none.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParsePalette parses a comma-separated list of hex colors.
// Empty input yields schema.DefaultPalette.
func ParsePalette(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return slices.Clone(schema.DefaultPalette), nil
	}
	var palette []string
	for part := range strings.SplitSeq(s, ",") {
		c := strings.TrimSpace(part)
		if c == "" {
			continue
		}
		if !hexColorRegex.MatchString(c) {
			return nil, fmt.Errorf("color %q is not #rgb or #rrggbb", c)
		}
		palette = append(palette, strings.ToLower(c))
	}
	if len(palette) == 0 {
		return nil, schema.ErrEmptyPalette
	}
	return palette, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
