package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unknown mode, unusable index)
	ExitDataError   = 3 // Data error (entries failed to parse, no DOI found)
)
