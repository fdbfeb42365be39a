package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"versa/internal/domain"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader(zap.NewNop()).Load(context.Background(), "")
	require.NoError(t, err)
	expect := domain.DefaultConfig()
	expect.HistoryPath = DefaultHistoryPath()
	if diff := cmp.Diff(expect, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_File(t *testing.T) {
	t.Setenv("VERSA_TEST_DATA", "/var/lib/versa")
	file := writeTempConfig(t, `
catalogPath: ./tools.yaml
watchCatalog: true
historyPath: ${VERSA_TEST_DATA}/history.db
listenAddress: 0.0.0.0:9000
metrics:
  enabled: false
stageDelay:
  minMillis: 0
  maxMillis: 10
strictSettings: true
taskTTLSeconds: 60
taskListLimit: 5
`)

	cfg, err := NewLoader(nil).Load(context.Background(), file)
	require.NoError(t, err)
	expect := domain.Config{
		CatalogPath:    "./tools.yaml",
		WatchCatalog:   true,
		HistoryPath:    "/var/lib/versa/history.db",
		ListenAddress:  "0.0.0.0:9000",
		Metrics:        false,
		Healthz:        true,
		StageDelay:     domain.StageDelay{MinMillis: 0, MaxMillis: 10},
		StrictSettings: true,
		TaskTTLSeconds: 60,
		TaskListLimit:  5,
	}
	if diff := cmp.Diff(expect, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("VERSA_LISTENADDRESS", "127.0.0.1:9999")
	file := writeTempConfig(t, "historyPath: ./h.db\n")

	cfg, err := NewLoader(nil).Load(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.ListenAddress)
	require.Equal(t, "./h.db", cfg.HistoryPath)
}

func TestLoader_ValidationErrors(t *testing.T) {
	file := writeTempConfig(t, `
listenAddress: nope
watchCatalog: true
stageDelay:
  minMillis: 100
  maxMillis: 10
taskTTLSeconds: -1
taskListLimit: 0
`)

	_, err := NewLoader(nil).Load(context.Background(), file)
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, `listenAddress "nope" must be host:port`)
	require.Contains(t, msg, "stageDelay.minMillis must be <= stageDelay.maxMillis")
	require.Contains(t, msg, "taskTTLSeconds must be >= 0")
	require.Contains(t, msg, "taskListLimit must be > 0")
	require.Contains(t, msg, "watchCatalog requires catalogPath")
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config")
}

func TestLoader_InvalidYAML(t *testing.T) {
	file := writeTempConfig(t, "listenAddress: [unterminated\n")

	_, err := NewLoader(nil).Load(context.Background(), file)
	require.Error(t, err)
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "versa.yaml")
	normalized := strings.ReplaceAll(content, "\t", "  ")
	if err := os.WriteFile(path, []byte(normalized), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
