// Package constants provides shared constants for the hypothekenrechner application.
package constants

import "time"

// DateLayout is the date format used in generated reports.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places used for CHF amounts
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100

	// CurrencyCode is the only currency the calculator works in
	CurrencyCode = "CHF"
)

// Policy defaults. Fractions are plain fractions (0.66 = 66 %), rates are
// annual percentages (1.0 = 1 %/yr).
const (
	// DefaultTier1Fraction is the share of the loan placed in the interest-only first mortgage
	DefaultTier1Fraction = "0.66"

	// DefaultTier2Fraction is the share of the loan placed in the amortizing second mortgage
	DefaultTier2Fraction = "0.14"

	// DefaultTier2Premium is the rate premium in percentage points charged on the second mortgage
	DefaultTier2Premium = "1"

	// DefaultAncillaryCostFraction is the yearly maintenance and insurance allowance as a share of the price
	DefaultAncillaryCostFraction = "0.01"

	// DefaultAffordabilityThresholdFraction is the share of gross income housing costs may consume
	DefaultAffordabilityThresholdFraction = "0.33"
)

// Rate mode and tier basis identifiers used in configuration.
const (
	RateModeSingle = "SINGLE"
	RateModeTiered = "TIERED"

	TierBasisLoan = "LOAN"
	TierBasisLTV  = "LTV"
)

// Default annual rates in percent for the rate products.
const (
	DefaultVariableRate   = "1.25"
	DefaultFixedShortRate = "1.8"
	DefaultFixedLongRate  = "2.2"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "HYPO"
)

// Rate source identifiers
const (
	RateSourceStatic = "static"
	RateSourceRedis  = "redis"

	// DefaultRedisKeyPrefix is prepended to product names when rates are read from Redis
	DefaultRedisKeyPrefix = "hypothekenrechner:rate:"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8050"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP server
	DefaultShutdownTimeout = 10 * time.Second

	// ReportFileName is the download name for exported reports
	ReportFileName = "Hypothekenrechner_Berechnung"
)
