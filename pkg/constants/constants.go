// Package constants provides shared constants for the bpo-report application.
package constants

// ReportDateLayout is the date stamp embedded in report identifiers.
const ReportDateLayout = "20060102"

// ReportIDPrefix prefixes every generated report identifier.
const ReportIDPrefix = "BPO-OPT"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DefaultImplementationCost is the one-off cost used for the ROI estimate
	DefaultImplementationCost = 250000.0

	// DefaultTopN is the number of theorems highlighted in a summary
	DefaultTopN = 3

	// DefaultPhaseWeeks is the length of one roadmap phase
	DefaultPhaseWeeks = 4
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Presentation defaults
const (
	// DefaultCurrencySymbol prefixes formatted amounts
	DefaultCurrencySymbol = "PHP"

	// DefaultLocale drives digit grouping in formatted amounts
	DefaultLocale = "en-PH"

	// NotAvailable is displayed where a figure is undefined
	NotAvailable = "N/A"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// EnvPrefix namespaces environment overrides (BPO_SERVER_ADDRESS)
	EnvPrefix = "BPO"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8000"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultListLimit bounds archive listings when no limit is requested
	DefaultListLimit = 50
)

// Business case defaults, matching the demonstration account
const (
	DefaultBusinessCaseMonthlyCost   = 2000000.0
	DefaultBusinessCaseAgentCount    = 50
	DefaultBusinessCaseCallsPerMonth = 12000
)

// Archive defaults
const (
	// StoreDriverMemory keeps reports in process memory
	StoreDriverMemory = "memory"

	// StoreDriverSQLite persists reports with the pure Go SQLite driver
	StoreDriverSQLite = "sqlite"

	// StoreDriverPostgres persists reports in PostgreSQL
	StoreDriverPostgres = "postgres"

	// DefaultMaxRecords bounds the in-memory archive
	DefaultMaxRecords = 100

	// DefaultCacheSize is the number of memoized summaries
	DefaultCacheSize = 256
)

// Success targets listed with every report
const (
	TargetMonthlySavings   = 150000.0
	TargetServiceLevel     = 0.85
	TargetAgentUtilization = 0.75
	TargetROIMonths        = 3
)

// Demo dataset defaults
const (
	DefaultDemoSeed    = 42
	DefaultDemoAgents  = 20
	DefaultDemoTickets = 100
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
