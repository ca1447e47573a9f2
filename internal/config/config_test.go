package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RowanDark/cribdrag/internal/baudot"
	"github.com/RowanDark/cribdrag/internal/crib"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()

	cfg, err := LoadFrom(home, work)
	require.NoError(t, err)

	require.Equal(t, "merged", cfg.Mode)
	require.Equal(t, "lenient", cfg.Policy)
	require.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.Equal(t, crib.DefaultQuickCribs, cfg.QuickCribs)
	require.Equal(t, "127.0.0.1:50061", cfg.Server.Addr)
	require.Equal(t, 64, cfg.Server.MaxConns)
	require.Equal(t, filepath.Join(home, ".cribdrag", "recipes"), cfg.RecipesDir)
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()

	writeFile(t, filepath.Join(home, ".cribdrag", "config.toml"), `mode = "letters"
workers = 2
quick_cribs = ["the", " and "]

[server]
addr = "0.0.0.0:1111"
max_conns = 8
`)
	writeFile(t, filepath.Join(work, "cribdrag.yml"), `policy: strict
workers: 3
server:
  addr: 127.0.0.1:6500
`)

	t.Setenv("CRIBDRAG_AUTH_TOKEN", "env-token")
	t.Setenv("CRIBDRAG_MAX_POSITIONS", "12")

	cfg, err := LoadFrom(home, work)
	require.NoError(t, err)

	require.Equal(t, "letters", cfg.Mode, "toml value kept when yaml is silent")
	require.Equal(t, "strict", cfg.Policy)
	require.Equal(t, 3, cfg.Workers, "yaml beats toml")
	require.Equal(t, []string{"THE", "AND"}, cfg.QuickCribs)
	require.Equal(t, "127.0.0.1:6500", cfg.Server.Addr)
	require.Equal(t, 8, cfg.Server.MaxConns)
	require.Equal(t, "env-token", cfg.Server.AuthToken)
	require.Equal(t, 12, cfg.MaxPositions)

	table, err := cfg.Table()
	require.NoError(t, err)
	require.Equal(t, baudot.ModeLetters, table.Mode())
	require.Equal(t, baudot.PolicyStrict, table.Policy())
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("CRIBD_TOKEN", "legacy")

	cfg, err := LoadFrom("", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "legacy", cfg.Server.AuthToken)
	require.Empty(t, cfg.RecipesDir)
}

func TestLoadQuickCribsEnv(t *testing.T) {
	t.Setenv("CRIBDRAG_QUICK_CRIBS", "stop, from,,attack")

	cfg, err := LoadFrom("", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, []string{"STOP", "FROM", "ATTACK"}, cfg.QuickCribs)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		env  map[string]string
	}{
		{name: "unknown mode", yml: "mode: greek\n"},
		{name: "unknown policy", yml: "policy: sloppy\n"},
		{name: "negative workers", yml: "workers: -1\n"},
		{name: "bad yaml", yml: "workers: [\n"},
		{name: "bad env int", env: map[string]string{"CRIBDRAG_WORKERS": "many"}},
		{name: "bad env bool", env: map[string]string{"CRIBDRAG_READABLE_ONLY": "perhaps"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			work := t.TempDir()
			if tc.yml != "" {
				writeFile(t, filepath.Join(work, "cribdrag.yml"), tc.yml)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom("", work)
			require.Error(t, err)
		})
	}
}

func TestEngineConfig(t *testing.T) {
	cfg := Default()
	cfg.Mode = "figures"
	cfg.Workers = 5

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	require.Equal(t, 5, ec.Workers)
	require.Equal(t, baudot.ModeFigures, ec.Table.Mode())
}
