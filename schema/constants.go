package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// ChartKind identifies one of the three chart pipelines.
	ChartKind string

	// ImageFormat represents the file format produced by the render sink.
	ImageFormat string

	// IssueKind classifies a per-record data quality problem.
	IssueKind string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All run history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All chart kinds supported.
const (
	BoxPlotChart  ChartKind = "boxplot"
	BarChartChart ChartKind = "barplot"
	LineChart     ChartKind = "lineplot"
)

// All image formats supported by the render sink.
const (
	SVGFormat ImageFormat = "svg" // default
	PNGFormat ImageFormat = "png"
)

// Issue kinds recorded by the loader and the pipelines.
const (
	MalformedNumberIssue IssueKind = "malformed_number"
	UnparseableDateIssue IssueKind = "unparseable_date"
)

// Default column names of the three datasets.
const (
	DefaultAgeGroupField = "AgeGroup"
	DefaultLikesField    = "Likes"
	DefaultPlatformField = "Platform"
	DefaultPostTypeField = "PostType"
	DefaultAvgLikesField = "AvgLikes"
	DefaultDateField     = "Date"
)

// Default input files of the three datasets.
const (
	DefaultBoxPlotFile  = "socialMedia.csv"
	DefaultBarChartFile = "socialMediaAvg.csv"
	DefaultLineFile     = "socialMediaTime.csv"
)

// AllChartKinds returns every chart kind in render order.
var AllChartKinds = []ChartKind{BoxPlotChart, BarChartChart, LineChart}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid run history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidImageFormats lists all valid render formats.
var ValidImageFormats = map[ImageFormat]struct{}{
	SVGFormat: {},
	PNGFormat: {},
}

// ValidChartKinds lists all valid chart kinds.
var ValidChartKinds = map[ChartKind]struct{}{
	BoxPlotChart:  {},
	BarChartChart: {},
	LineChart:     {},
}

// DefaultPalette is the categorical palette used when none is configured.
var DefaultPalette = []string{"#1f77b4", "#ff7f0e", "#2ca02c"}
