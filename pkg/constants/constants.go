// Package constants provides shared constants for the overhang-risk application.
package constants

// Currency constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"

	// OutputFormatMarkdown renders the investor memo as markdown
	OutputFormatMarkdown = "markdown"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix scopes environment overrides, e.g. OVERHANG_VOUCHERS_TENANTBASED
	EnvPrefix = "OVERHANG"
)

// Export constants
const (
	// DefaultExportFile is the default workbook name, matching the dashboard download
	DefaultExportFile = "section8_overhang_analysis.xlsx"

	// DefaultMemoFile is the default PDF memo name
	DefaultMemoFile = "section8_overhang_memo.pdf"

	// UnitDataSheet is the workbook sheet holding the augmented unit table
	UnitDataSheet = "Unit Data"

	// ScenarioSummarySheet is the workbook sheet holding the bounding scenarios
	ScenarioSummarySheet = "Scenario Summary"

	// XLSXContentType is the MIME type of exported workbooks
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// PDFContentType is the MIME type of exported memos
	PDFContentType = "application/pdf"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
