package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable journal file, bad config value)
	ExitDataError   = 3 // Data error (citation rejected, integrity issues, dead links)
	ExitUnsupported = 4 // Action or request method not supported by the publisher
)
