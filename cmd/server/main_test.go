package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCmd_BadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptdeck.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = "), 0o600))

	err := execute("--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	assert.Error(t, execute("serve"))
	assert.Error(t, execute("--port", "9000"))
}

func TestRootCmd_ServesUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptdeck.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = \"0\"\n[storage]\nbackend = \"memory\"\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", path})
	assert.NoError(t, cmd.ExecuteContext(ctx))
}
