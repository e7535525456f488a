package config

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchly/dispatch/scheduler/server"
	"github.com/benchly/dispatch/store"
)

var tests = []string{"default", "local.memory", "local.postgres"}

// Tests to ensure every preset is properly specified and parses
func TestGettingConfigurations(t *testing.T) {
	for _, configSelector := range tests {
		cfg, err := GetConfig(configSelector)
		require.Nil(t, err, fmt.Sprintf("error getting config %s: %s", configSelector, err))
		_, err = cfg.Scheduler.CreateDispatcherConfig()
		assert.NoError(t, err, configSelector)
	}

	selector := "invalid.selector"
	config, err := GetConfig(selector)
	assert.NotNil(t, err, fmt.Sprintf("configuration returned for %s: %s", selector, config))
}

// Sections left out of a preset fall back to the default preset.
func TestDefaultSections(t *testing.T) {
	cfg, err := GetConfig("local.postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Type)
	assert.True(t, cfg.Store.Migrate)
	assert.Equal(t, "10s", cfg.Remote.Timeout)
	assert.Equal(t, float64(50), cfg.Remote.RateLimit)
	assert.Equal(t, "polling", cfg.Scheduler.Type)
	assert.Equal(t, 50, cfg.Scheduler.PoolSize)
	assert.Equal(t, "localhost:9091", cfg.Admin.Addr)

	cfg, err = GetConfig("local.memory")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scheduler.PoolSize)
	assert.Equal(t, "http", cfg.Remote.Type)
}

func TestDispatcherConfig(t *testing.T) {
	cfg, err := GetConfig("local.memory")
	require.NoError(t, err)
	dc, err := cfg.Scheduler.CreateDispatcherConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, dc.JobSchedulerInterval)
	assert.Equal(t, 5*time.Second, dc.JobCheckThreshold)
	// Unset durations take the dispatcher's defaults.
	assert.Equal(t, server.DefaultStaggerDelay, dc.StaggerDelay)
	assert.Equal(t, server.DefaultCancelRecheckDelay, dc.CancelRecheckDelay)
	assert.Equal(t, server.DefaultDeleteDataTries, dc.DeleteDataTries)

	_, err = SchedulerConfig{Type: "polling", StaggerDelay: "soon"}.CreateDispatcherConfig()
	assert.Error(t, err)
	_, err = SchedulerConfig{Type: "push"}.CreateDispatcherConfig()
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "dispatchconfig")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "dispatch.yaml")
	text := "Scheduler:\n  Type: polling\n  JobWatcherInterval: 3s\nAdmin:\n  Type: none\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(text), 0644))

	cfg, err := GetConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "3s", cfg.Scheduler.JobWatcherInterval)
	assert.Equal(t, "none", cfg.Admin.Type)
	assert.Equal(t, "memory", cfg.Store.Type)

	_, err = ParseConfig([]byte("Store: [not, a, map]"))
	assert.Error(t, err)
}

func TestCreateComponents(t *testing.T) {
	st, err := StoreConfig{Type: "memory"}.Create(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)

	_, err = StoreConfig{Type: "postgres"}.Create(context.Background())
	assert.Error(t, err)
	_, err = StoreConfig{Type: "cassandra"}.Create(context.Background())
	assert.Error(t, err)

	_, err = RemoteConfig{Type: "http", Timeout: "1s"}.Create(nil)
	assert.NoError(t, err)
	_, err = RemoteConfig{Type: "http", Timeout: "later"}.Create(nil)
	assert.Error(t, err)
	_, err = RemoteConfig{Type: "thrift"}.Create(nil)
	assert.Error(t, err)
}
