// Parses flags and configures logging for the lathe tool.
//
// The tool accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	-f, --file      Project file listing the parts.
//	-w, --workdir   Directory holding the build work areas.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// selected subcommand runs.
package cli
