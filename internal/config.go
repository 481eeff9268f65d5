package internal

import (
	"strconv"
	"sync/atomic"
)

var (
	quietMode   atomic.Bool // Suppress informational output.
	debugMode   atomic.Bool // Emit debug output.
	verboseMode atomic.Bool // Emit verbose output.
)

// Seeds the output modes from build-time linker flags.
//
// The rawQuiet, rawDebug, and rawVerbose variables may be set via ldflags
// during the build; each defaults to "false" when unset or unparsable.
func init() {
	quietMode.Store(parseBool(rawQuiet))
	debugMode.Store(parseBool(rawDebug))
	verboseMode.Store(parseBool(rawVerbose))
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

// Enables or disables quiet mode.
func SetQuiet(enabled bool) {
	quietMode.Store(enabled)
}

// Returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode.Load()
}

// Enables or disables debug mode.
func SetDebug(enabled bool) {
	debugMode.Store(enabled)
}

// Returns true if debug mode is enabled.
func IsDebug() bool {
	return debugMode.Load()
}

// Enables or disables verbose output.
func SetVerbose(enabled bool) {
	verboseMode.Store(enabled)
}

// Returns true if verbose output is enabled.
func IsVerbose() bool {
	return verboseMode.Load()
}
