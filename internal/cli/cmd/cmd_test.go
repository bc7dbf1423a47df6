package cmd

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/internal/domain/entity"
	"github.com/bnema/berkelium-go/pkg/berkelium"
	"github.com/bnema/berkelium-go/pkg/berkelium/libpath"
)

func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("BERKELIUM_ENGINE_BACKEND", "headless")
	t.Setenv("BERKELIUM_ENGINE_UPDATE_INTERVAL", "1ms")
	t.Setenv("BERKELIUM_LOGGING_LEVEL", "error")
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv(libpath.LibraryPathVar(), os.Getenv(libpath.LibraryPathVar()))
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderAndHistory(t *testing.T) {
	root := isolate(t)
	output := filepath.Join(root, "out", "page.png")

	out, err := execute(t, "render", "data:text/html,<title>Navy</title><body bgcolor=navy>",
		"-o", output, "--width", "40", "--height", "30", "--scale", "0.5")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Navy -> ")
	assert.Contains(t, out, "(20x15)")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
	_, _, b, _ := img.At(10, 7).RGBA()
	assert.Greater(t, b>>8, uint32(0x60))

	out, err = execute(t, "history", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Navy")
	assert.Contains(t, out, "visit_count: 1")

	out, err = execute(t, "history", "--format", "json", "--limit", "5")
	require.NoError(t, err)
	var entries []entity.HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Navy", entries[0].Title)

	_, err = execute(t, "history", "--format", "xml")
	require.Error(t, err)

	out, err = execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")
}

func TestRenderLoadError(t *testing.T) {
	isolate(t)
	_, err := execute(t, "render", "nosuch://page", "-o", filepath.Join(t.TempDir(), "x.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page failed to load")
}

func TestRenderInvalidHomeDirectory(t *testing.T) {
	root := isolate(t)
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	t.Setenv("BERKELIUM_ENGINE_HOME_DIR", filepath.Join(file, "home"))

	var err error
	require.NotPanics(t, func() {
		_, err = execute(t, "render", "about:blank", "-o", filepath.Join(root, "x.png"))
	})
	require.ErrorIs(t, err, berkelium.ErrInvalidHomeDirectory)
}

func TestConfigCommands(t *testing.T) {
	root := isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "config", "berkelium", "config.toml"), strings.TrimSpace(out))

	out, err = execute(t, "config", "schema")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestDeployWithoutBundle(t *testing.T) {
	isolate(t)
	out, err := execute(t, "deploy", "--verify")
	require.NoError(t, err)
	assert.Contains(t, out, "no bundled engine files")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "berkelium")
}
