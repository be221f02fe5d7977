package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging_DebugRaisesVerbosity(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setupLogging(&flags{logLevel: "warn", debug: true})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	setupLogging(&flags{logLevel: "trace", debug: true})
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())

	setupLogging(&flags{logLevel: "bogus"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestProfilesCommand_PrintsOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	for _, key := range []string{"PROFILE_PATH", "GESTURE_PROFILE", "EXECUTOR", "MAX_CLIENTS", "SENSITIVITY", "PING_INTERVAL", "LISTEN_ADDR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	doc := "profiles:\n  standard:\n    hold_delay: 450ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte(doc), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"profiles"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "hold_delay: 450ms")
	assert.Contains(t, out.String(), "immediate:")
}
