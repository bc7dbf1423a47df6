package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: zerolog.InfoLevel, Format: "json"}, &buf)

	ctx := WithComponent(WithContext(context.Background(), logger), "engine")
	FromContext(ctx).Info().Msg("ready")
	FromContext(ctx).Debug().Msg("hidden")

	assert.Contains(t, buf.String(), `"component":"engine"`)
	assert.Contains(t, buf.String(), `"message":"ready"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestFromContext_NoLogger(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	logger.Info().Msg("dropped")
}

func TestTruncateURL(t *testing.T) {
	assert.Equal(t, "about:blank", TruncateURL("about:blank", 20))
	assert.Equal(t, "data:text/h...", TruncateURL("data:text/html,<p>long</p>", 14))
}

func TestNewWithFile_Rotates(t *testing.T) {
	dir := t.TempDir()
	logger, cleanup, err := NewWithFile(
		Config{Level: zerolog.InfoLevel, Format: "json"},
		FileConfig{Enabled: true, Dir: dir, MaxSizeMB: 1, MaxBackups: 1},
	)
	require.NoError(t, err)

	payload := string(bytes.Repeat([]byte("x"), 64*1024))
	for range 40 {
		logger.Info().Str("payload", payload).Msg("fill")
	}
	cleanup()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, logFileName))
	assert.Len(t, entries, 2)
}
