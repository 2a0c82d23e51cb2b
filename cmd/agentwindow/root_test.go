package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agentwindow/internal/script"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand(t *testing.T) {
	path := writeFile(t, "run.toml", `
name = "sample"

[[message]]
type = "goal"
value = "Launch"

[[message]]
type = "action"
value = "sunny"
info = "Fetching weather"

[[message]]
type = "system"
value = "done"
`)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"validate", path})
	require.NoError(t, root.Execute())

	got := out.String()
	require.Contains(t, got, "sample: 3 messages")
	require.Contains(t, got, "0-goal")
	require.Contains(t, got, "Embarking on a new goal: Launch")
	require.Contains(t, got, "Fetching weather sunny")
	require.True(t, strings.HasSuffix(strings.TrimSpace(got), "done"))
}

func TestValidateCommandRejectsUnknownType(t *testing.T) {
	path := writeFile(t, "bad.toml", `
[[message]]
type = "user"
value = "hi"
`)
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"validate", path})
	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown message type")
}

func TestLoadRuntimeConfig(t *testing.T) {
	t.Setenv("AGENTWINDOW_NO_ANIMATION", "")
	t.Setenv("AGENTWINDOW_LOG", "")
	cfgPath := writeFile(t, "config.toml", "height = 12\n")

	cfg, err := loadRuntimeConfig(&rootArgs{
		cfgPath:     cfgPath,
		overrides:   []string{"placeholder=hello"},
		noAnimation: true,
	})
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Height)
	require.Equal(t, "hello", cfg.Placeholder)
	require.False(t, cfg.Animations)
}

func TestLoadScriptDefaultsToBuiltin(t *testing.T) {
	s, err := loadScript("")
	require.NoError(t, err)
	require.Equal(t, script.Builtin().Name, s.Name)
	require.NotEmpty(t, s.Entries)
}

func TestConfigInitAndShow(t *testing.T) {
	t.Setenv("AGENTWINDOW_NO_ANIMATION", "")
	t.Setenv("AGENTWINDOW_LOG", "")
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "wrote "+path)

	root = newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--config", path})
	require.ErrorContains(t, root.Execute(), "already exists")

	root = newRootCmd()
	out.Reset()
	root.SetOut(&out)
	root.SetArgs([]string{"config", "show", "--config", path})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "# "+path)
	require.Contains(t, out.String(), "animation_frames = 4")
}
