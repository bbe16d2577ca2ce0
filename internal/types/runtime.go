package types

// RunMode identifies how the process was started.
type RunMode string

const (
	RunModeServer RunMode = "server"
	RunModeLocal  RunMode = "local"
)

// LogLevel controls logger verbosity.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
