package config

// Application constants
const (
	AppName    = "bbbcli"
	AppVersion = "1.0.0"

	// File paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultMatchesDir = "data/matches"
	DefaultReportsDir = "data/reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/bbbcli.log"

	DefaultExportBaseName = "deliveries"

	// Rate limiting
	DefaultRateLimitRPS = 50
	DefaultBurstSize    = 100
)

// Export formats
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// SupportedExportFormats lists every format the exporter understands
var SupportedExportFormats = []string{FormatCSV, FormatXLSX, FormatSQLite}
