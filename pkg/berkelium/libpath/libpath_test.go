package libpath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/berkelium-go/pkg/berkelium/libpath"
)

func TestPrepend(t *testing.T) {
	t.Setenv("BERKELIUM_TEST_PATH", "/usr/bin")
	dir := filepath.Join(t.TempDir(), "NativeLibraries")

	changed, err := libpath.Prepend("BERKELIUM_TEST_PATH", dir)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, dir+string(os.PathListSeparator)+"/usr/bin", os.Getenv("BERKELIUM_TEST_PATH"))

	changed, err = libpath.Prepend("BERKELIUM_TEST_PATH", dir)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestPrepend_EmptyVariable(t *testing.T) {
	t.Setenv("BERKELIUM_TEST_PATH", "")
	dir := t.TempDir()

	_, err := libpath.Prepend("BERKELIUM_TEST_PATH", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, os.Getenv("BERKELIUM_TEST_PATH"))
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", os.Getenv("PATH"))
	t.Setenv(libpath.LibraryPathVar(), "")

	require.NoError(t, libpath.Configure(dir))

	assert.Equal(t, dir, filepath.SplitList(os.Getenv("PATH"))[0])
	assert.Equal(t, dir, filepath.SplitList(os.Getenv(libpath.LibraryPathVar()))[0])
}
