package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluffware/modbusaudio/internal/cliconfig"
	"github.com/fluffware/modbusaudio/internal/domain"
)

// execute runs the root command with args and returns the resolved config.
func execute(t *testing.T, args ...string) (cliconfig.Config, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var got cliconfig.Config
	cmd := newRootCommand(func(_ context.Context, cfg cliconfig.Config) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(new(discard))
	cmd.SetErr(new(discard))
	err := cmd.Execute()
	return got, err
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }

func TestRootCommand_Defaults(t *testing.T) {
	cfg, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, cliconfig.DefaultConfig(), cfg)
}

func TestRootCommand_Flags(t *testing.T) {
	cfg, err := execute(t,
		"--listen", "127.0.0.1:1502",
		"--clips", "clips.yaml",
		"--channels", "1",
		"--read-timeout", "250ms",
		"--standard-echo",
		"--no-audio",
		"--log-level", "debug",
	)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1502", cfg.ListenAddr)
	assert.Equal(t, "clips.yaml", cfg.ClipsFile)
	assert.Equal(t, 1, cfg.Channels)
	assert.Equal(t, 250*time.Millisecond, cfg.ReadTimeout)
	assert.True(t, cfg.StandardEcho)
	assert.True(t, cfg.NoAudio)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestRootCommand_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen = "0.0.0.0:1111"
sample_rate = 22050
channels = 1
clips_file = "clips.conf"
`), 0o644))

	t.Setenv("MODBUSAUDIO_SAMPLE_RATE", "48000")
	t.Setenv("MODBUSAUDIO_LISTEN", "0.0.0.0:2222")

	cfg, err := execute(t, "--config", path, "--listen", "0.0.0.0:3333")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3333", cfg.ListenAddr, "flag beats env and file")
	assert.Equal(t, 48000, cfg.SampleRate, "env beats file")
	assert.Equal(t, 1, cfg.Channels, "file beats default")
	assert.Equal(t, filepath.Join(dir, "clips.conf"), cfg.ClipsFile)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, err := execute(t, "--channels", "3")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRootCommand_MissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorContains(t, err, "not found")
}
