package config

const (
	// DefaultConfigFile is read if it exists and no other file is specified
	DefaultConfigFile = "unit-harness.yaml"
	// DefaultEnvFile is the dotenv file read for environment overrides
	DefaultEnvFile = ".env"
	// DefaultFormat is the default report format
	DefaultFormat = FormatText
	// DefaultWorkers means tests run one at a time
	DefaultWorkers = 1

	// EnvPrefix is the prefix of every environment variable the harness reads
	EnvPrefix = "UNIT_HARNESS_"
)

const (
	FormatText  = "text"
	FormatTable = "table"
)
