package cli

import "errors"

var (
	// ErrConfigFileNotFound is returned when an explicitly requested config
	// file does not exist.
	ErrConfigFileNotFound = errors.New("config file not found")

	// ErrConfigFileRead is returned when a config file exists but cannot be
	// read.
	ErrConfigFileRead = errors.New("cannot read config file")

	// ErrConfigInvalid is returned when a config file cannot be parsed.
	ErrConfigInvalid = errors.New("invalid config file")

	// ErrRootEmpty is returned when the analysis root is configured empty.
	ErrRootEmpty = errors.New("root cannot be empty")

	errUnknownCommand = errors.New("unknown command")
	errMissingArg     = errors.New("missing argument")
)
