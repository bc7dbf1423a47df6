//go:build windows

package dl

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// LibraryName returns the file name of the engine shim for this platform.
func LibraryName() string {
	return "berkelium_c.dll"
}

func openLibrary(path string) (uintptr, error) {
	h, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w", path, err)
	}
	return uintptr(h), nil
}

func symbol(lib uintptr, name string) (uintptr, error) {
	sym, err := windows.GetProcAddress(windows.Handle(lib), name)
	if err != nil {
		return 0, err
	}
	if sym == 0 {
		return 0, fmt.Errorf("symbol %q not found", name)
	}
	return sym, nil
}
