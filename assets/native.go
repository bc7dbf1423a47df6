//go:build !bundle_native

// Package assets holds the engine files bundled into release builds.
package assets

import "io/fs"

// Native returns the bundled engine files. Builds without the bundle_native
// tag carry none and expect the shim to be installed separately.
func Native() fs.FS {
	return nil
}
