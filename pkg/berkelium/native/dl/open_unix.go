//go:build linux || darwin

package dl

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

// LibraryName returns the file name of the engine shim for this platform.
func LibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libberkelium_c.dylib"
	}
	return "libberkelium_c.so"
}

func openLibrary(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("dlopen %s: %w", path, err)
	}
	return h, nil
}

func symbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
