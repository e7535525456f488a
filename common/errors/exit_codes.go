package errors

type ExitCode int

const (
	GenericFailureExitCode ExitCode = 1

	// Configuration could not be read or is invalid
	ConfigFailureExitCode ExitCode = 70

	// Store specific exit codes
	StoreConnectFailureExitCode ExitCode = 80
	StoreMigrateFailureExitCode ExitCode = 81

	// A contact could not be reached for its name check
	NameCheckFailureExitCode ExitCode = 90

	ServeFailureExitCode ExitCode = 100
)
