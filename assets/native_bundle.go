//go:build bundle_native

// Package assets holds the engine files bundled into release builds.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed native/*
var nativeFiles embed.FS

// Native returns the engine shim and its resources, copied into
// assets/native before a release build.
func Native() fs.FS {
	sub, err := fs.Sub(nativeFiles, "native")
	if err != nil {
		panic(err)
	}
	return sub
}
