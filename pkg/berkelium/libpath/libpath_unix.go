//go:build !windows

package libpath

import "runtime"

// LibraryPathVar names the environment variable the loader searches.
func LibraryPathVar() string {
	if runtime.GOOS == "darwin" {
		return "DYLD_LIBRARY_PATH"
	}
	return "LD_LIBRARY_PATH"
}

// The variable only reaches processes the engine spawns; the shim itself is
// opened by absolute path.
func setLibraryDir(dir string) error {
	_, err := Prepend(LibraryPathVar(), dir)
	return err
}
