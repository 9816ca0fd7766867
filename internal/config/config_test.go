package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fiberd.yaml")
	contents := "scheduler:\n  worker_pool_size: 8\nrpc:\n  listen_addr: \"0.0.0.0:1234\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scheduler.WorkerPoolSize)
	assert.Equal(t, "0.0.0.0:1234", cfg.RPC.ListenAddr)
	assert.Equal(t, DefaultProcessorPoolSize, cfg.RPC.ProcessorPoolSize)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fiberd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  worker_pool_size: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativeNameResolutionTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fiberd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  name_resolution_timeout_ms: -1\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSchedulerConfigDialTimeoutConvertsMillisecondsToDuration(t *testing.T) {
	cfg := SchedulerConfig{NameResolutionTimeoutMS: 2500}
	assert.Equal(t, 2500*time.Millisecond, cfg.DialTimeout())

	zero := SchedulerConfig{}
	assert.Equal(t, time.Duration(0), zero.DialTimeout())
}
