package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/sonemaro/ewc/pkg/output"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for one invocation
type Config struct {
	// Paths are the positional arguments in order. "-" is standard input.
	Paths []string

	// Metric selection
	Lines         bool
	Words         bool
	Bytes         bool
	MaxLineLength bool

	// All includes hidden files and directories during recursion
	All bool

	// Include and Exclude are glob patterns matched against paths relative
	// to each directory argument
	Include []string
	Exclude []string

	// Gitignore honors <root>/.gitignore during recursion
	Gitignore bool

	// Verbose lists every file found under directory arguments
	Verbose bool

	// Output is the output format (human, compact, json or yaml). Compact
	// and JSON are shorthands that override it.
	Output  string
	Compact bool
	JSON    bool

	// OutputFile is the path to write the output (empty for stdout)
	OutputFile string

	NoColor    bool
	NoProgress bool

	// Workers is the number of concurrent counters
	Workers int

	// BufferSize is the size of the read buffer per file
	BufferSize int

	// RateLimit is the maximum number of file opens per second (0 for unlimited)
	RateLimit int

	// Debug sets the log verbosity
	Debug int
}

// RegisterFlags defines every configuration flag on fs. Load reads them
// back through viper.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP(KeyLines, "l", false, "show line count")
	fs.BoolP(KeyWords, "w", false, "show word count")
	fs.BoolP(KeyBytes, "c", false, "show byte count")
	fs.BoolP(KeyMaxLineLength, "L", false, "show longest line length")
	fs.BoolP(KeyAll, "a", false, "include hidden files and directories")
	fs.StringArrayP(KeyInclude, "i", nil, "only count files matching these globs (repeatable)")
	fs.StringArrayP(KeyExclude, "e", nil, "skip paths matching these globs (repeatable)")
	fs.Bool(KeyGitignore, false, "honor .gitignore in directory arguments")
	fs.BoolP(KeyVerbose, "v", false, "list files under directory arguments")
	fs.BoolP(KeyCompact, "C", false, "compact one-line output format")
	fs.Bool(KeyJSON, false, "output in JSON format")
	fs.StringP(KeyOutput, "o", string(output.FormatHuman), "output format: human|compact|json|yaml")
	fs.StringP(KeyOutputFile, "f", "", "write output to file instead of stdout")
	fs.Bool(KeyNoColor, false, "disable colors and icons")
	fs.Bool(KeyNoProgress, false, "disable progress reporting")
	fs.IntP(KeyWorkers, "j", runtime.NumCPU(), "number of concurrent workers")
	fs.IntP(KeyBufferSize, "b", DefaultBufferSize, "read buffer size in bytes")
	fs.IntP(KeyRateLimit, "r", 0, "maximum file opens per second (0 for unlimited)")
	fs.CountP(KeyDebug, "D", "log verbosity (repeat for more)")
}

// Load builds the configuration from flags and EWC_* environment variables
// and validates it. Changed flags win over the environment. flags may be
// nil, in which case only the environment and defaults are used.
func Load(flags *pflag.FlagSet, args []string) (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyBufferSize, DefaultBufferSize)
	v.SetDefault(KeyOutput, string(output.FormatHuman))
	v.SetDefault(KeyRateLimit, 0)

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg := Config{
		Paths:         args,
		Lines:         v.GetBool(KeyLines),
		Words:         v.GetBool(KeyWords),
		Bytes:         v.GetBool(KeyBytes),
		MaxLineLength: v.GetBool(KeyMaxLineLength),
		All:           v.GetBool(KeyAll),
		Include:       patternList(v, flags, KeyInclude),
		Exclude:       patternList(v, flags, KeyExclude),
		Gitignore:     v.GetBool(KeyGitignore),
		Verbose:       v.GetBool(KeyVerbose),
		Output:        strings.ToLower(strings.TrimSpace(v.GetString(KeyOutput))),
		Compact:       v.GetBool(KeyCompact),
		JSON:          v.GetBool(KeyJSON),
		OutputFile:    v.GetString(KeyOutputFile),
		NoColor:       v.GetBool(KeyNoColor) || os.Getenv("NO_COLOR") != "",
		NoProgress:    v.GetBool(KeyNoProgress),
		Workers:       v.GetInt(KeyWorkers),
		BufferSize:    v.GetInt(KeyBufferSize),
		RateLimit:     v.GetInt(KeyRateLimit),
		Debug:         v.GetInt(KeyDebug),
	}

	// Handle special case for workers=0
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"-"}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// patternList returns the glob list for key. A changed flag is read as
// given, one pattern per occurrence; the environment holds a single string.
// Either way items are split on commas outside {...} and [...], so
// "*.go,*.md" is two patterns and "*.{go,md}" stays one.
func patternList(v *viper.Viper, flags *pflag.FlagSet, key string) []string {
	var items []string
	if flags != nil && flags.Changed(key) {
		items, _ = flags.GetStringArray(key)
	} else if raw := v.GetString(key); raw != "" {
		items = []string{raw}
	}

	var out []string
	for _, item := range items {
		out = append(out, splitPatterns(item)...)
	}
	return out
}

// splitPatterns splits s on top-level commas and drops empty items
func splitPatterns(s string) []string {
	var out []string
	add := func(p string) {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	depth, start := 0, 0
	inClass := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			add(s[start:i])
			start = i + 1
		}
	}
	add(s[start:])
	return out
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	// Validate workers count
	if c.Workers < 0 {
		return fmt.Errorf("workers count must be positive")
	}
	maxWorkers := runtime.NumCPU() * MaxWorkerMultiplier
	if c.Workers > maxWorkers {
		return fmt.Errorf("workers count cannot exceed system CPU count * %d", MaxWorkerMultiplier)
	}

	// Validate output format
	if _, err := output.ParseFormat(c.Output); err != nil {
		return fmt.Errorf("invalid output format %q: must be one of %v", c.Output, output.Formats)
	}
	if c.JSON && c.Compact {
		return fmt.Errorf("--json and --compact are mutually exclusive")
	}

	// Validate buffer size
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer size must be positive")
	}
	if c.BufferSize < MinBufferSize {
		return fmt.Errorf("buffer size must be at least %d bytes", MinBufferSize)
	}

	// Validate rate limit
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if c.Debug < 0 {
		return fmt.Errorf("debug level must be non-negative")
	}

	return nil
}

// Format returns the effective output format after applying the --json and
// --compact shorthands.
func (c Config) Format() output.Format {
	switch {
	case c.JSON:
		return output.FormatJSON
	case c.Compact:
		return output.FormatCompact
	}
	f, err := output.ParseFormat(c.Output)
	if err != nil {
		return output.Format(c.Output)
	}
	return f
}

func (c Config) showAll() bool {
	return !c.Lines && !c.Words && !c.Bytes && !c.MaxLineLength
}

// ShowLines reports whether the line count is displayed
func (c Config) ShowLines() bool { return c.Lines || c.showAll() }

// ShowWords reports whether the word count is displayed
func (c Config) ShowWords() bool { return c.Words || c.showAll() }

// ShowBytes reports whether the byte count is displayed
func (c Config) ShowBytes() bool { return c.Bytes || c.showAll() }

// ShowMaxLineLength reports whether the longest line length is displayed.
// It is never part of the default selection.
func (c Config) ShowMaxLineLength() bool { return c.MaxLineLength }

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Paths: %v, Output: %s, Workers: %d, BufferSize: %d, "+
			"RateLimit: %d, All: %v, Include: %v, Exclude: %v, Gitignore: %v, "+
			"Verbose: %v, NoProgress: %v, NoColor: %v, Debug: %d, OutputFile: %s}",
		c.Paths, c.Format(), c.Workers, c.BufferSize,
		c.RateLimit, c.All, c.Include, c.Exclude, c.Gitignore,
		c.Verbose, c.NoProgress, c.NoColor, c.Debug, c.OutputFile,
	)
}
