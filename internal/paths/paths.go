package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "lathe"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the per-user cache directory for reusable artifacts.
//
//	Linux:   $XDG_CACHE_HOME/lathe or ~/.cache/lathe
//	macOS:   ~/Library/Caches/lathe
func Cache() string {
	return filepath.Join(xdg.CacheHome, toolName)
}

// Path to the package cache shared across projects. Bind-mounted into
// sandboxes when host package sources are imported.
//
//	Linux:   $XDG_CACHE_HOME/lathe/packages
func PackageCache() string {
	return filepath.Join(Cache(), "packages")
}

// Path to the per-user state directory, for data that should survive
// cache cleaning.
//
//	Linux:   $XDG_STATE_HOME/lathe or ~/.local/state/lathe
func State() string {
	return filepath.Join(xdg.StateHome, toolName)
}
