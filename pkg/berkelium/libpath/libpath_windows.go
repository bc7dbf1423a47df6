//go:build windows

package libpath

import "golang.org/x/sys/windows"

// LibraryPathVar names the environment variable the loader searches.
func LibraryPathVar() string {
	return "PATH"
}

func setLibraryDir(dir string) error {
	return windows.SetDllDirectory(dir)
}
