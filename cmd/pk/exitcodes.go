package main

// Exit codes for the pk CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, bad config)
	ExitDataError   = 3 // Data error (malformed file, validation failure)
	ExitNotFound    = 4 // Prompt or tag not found
	ExitDuplicate   = 5 // Duplicate prompt name
)
