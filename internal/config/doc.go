/*
Package config provides configuration management for ewc. It merges
command-line flags with environment variables and validates the result.

Usage:

	flags := pflag.NewFlagSet("ewc", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags, flags.Args())
	if err != nil {
	    log.Fatal(err)
	}

Environment Variables:

	EWC_WORKERS          Number of concurrent workers
	EWC_BUFFER_SIZE      Read buffer size in bytes
	EWC_RATE_LIMIT       Maximum file opens per second
	EWC_ALL              Include hidden files and directories
	EWC_INCLUDE          Comma-separated include globs
	EWC_EXCLUDE          Comma-separated exclude globs
	EWC_GITIGNORE        Honor .gitignore in directory arguments
	EWC_OUTPUT           Output format: human|compact|json|yaml
	EWC_OUTPUT_FILE      Output file path
	EWC_NO_PROGRESS      Disable progress reporting
	EWC_NO_COLOR         Disable colors and icons (NO_COLOR is honored too)
	EWC_DEBUG            Log verbosity (0-3)

Default Values:

	Workers:     Number of CPU cores
	Output:      "human"
	BufferSize:  65536 bytes
	RateLimit:   0 (unlimited)
	Paths:       ["-"] (standard input)
*/
package config
