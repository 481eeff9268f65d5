// Provides platform-appropriate paths for the tool.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS and Windows. The tool name "lathe" is used as the subdirectory
// under each base path. Project-local paths (parts, stage, prime) are owned
// by the parts package; this package only covers per-user locations.
package paths
