package config

// Constants for configuration limits and defaults
const (
	// EnvPrefix prefixes every environment variable read by Load
	EnvPrefix = "EWC"

	// MinBufferSize is the minimum allowed buffer size in bytes
	MinBufferSize = 64

	// DefaultBufferSize is the default read buffer size in bytes
	DefaultBufferSize = 64 * 1024

	// MaxWorkerMultiplier is the maximum multiple of CPU cores for worker count
	MaxWorkerMultiplier = 4
)

// Flag and viper keys. Environment variables are EnvPrefix + "_" + the key
// upper-cased with dashes replaced by underscores.
const (
	KeyLines         = "lines"
	KeyWords         = "words"
	KeyBytes         = "bytes"
	KeyMaxLineLength = "max-line-length"
	KeyAll           = "all"
	KeyInclude       = "include"
	KeyExclude       = "exclude"
	KeyGitignore     = "gitignore"
	KeyVerbose       = "verbose"
	KeyCompact       = "compact"
	KeyJSON          = "json"
	KeyNoColor       = "no-color"
	KeyNoProgress    = "no-progress"
	KeyOutput        = "output"
	KeyOutputFile    = "output-file"
	KeyWorkers       = "workers"
	KeyBufferSize    = "buffer-size"
	KeyRateLimit     = "rate-limit"
	KeyDebug         = "debug"
)
