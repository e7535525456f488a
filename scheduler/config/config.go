// Package config selects and builds the dispatcher's components from a
// named preset or a config file. Sections whose Type is empty take the
// default preset's section.
package config

import (
	"context"
	"fmt"
	"io/ioutil"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	dispatcherrors "github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/server"
	"github.com/benchly/dispatch/store"
	"github.com/benchly/dispatch/store/postgres"
	"github.com/benchly/dispatch/workerapi/client"
)

// ServiceConfig holds one section per component. Files may be YAML or JSON.
type ServiceConfig struct {
	Store     StoreConfig     `yaml:"Store"`
	Remote    RemoteConfig    `yaml:"Remote"`
	Scheduler SchedulerConfig `yaml:"Scheduler"`
	Admin     AdminConfig     `yaml:"Admin"`
}

func (s ServiceConfig) String() string {
	return fmt.Sprintf("\n%s\n%s\n%s\n%s", s.Store, s.Remote, s.Scheduler, s.Admin)
}

type StoreConfig struct {
	Type         string `yaml:"Type"` // memory, postgres
	DSN          string `yaml:"DSN"`
	MaxOpenConns int    `yaml:"MaxOpenConns"`
	ConnectTries uint64 `yaml:"ConnectTries"` // default to 1
	Migrate      bool   `yaml:"Migrate"`
}

func (c StoreConfig) String() string {
	// The DSN may carry credentials.
	return fmt.Sprintf("StoreConfig: Type: %s, MaxOpenConns: %d, ConnectTries: %d, Migrate: %t",
		c.Type, c.MaxOpenConns, c.ConnectTries, c.Migrate)
}

// Create opens the configured store, applying the schema if asked to.
func (c StoreConfig) Create(ctx context.Context) (store.Store, error) {
	switch c.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "postgres":
		if c.DSN == "" {
			return nil, errors.New("postgres store needs a DSN")
		}
		pg, err := postgres.Open(ctx, postgres.Config{
			DSN:          c.DSN,
			MaxOpenConns: c.MaxOpenConns,
			ConnectTries: c.ConnectTries,
		})
		if err != nil {
			return nil, dispatcherrors.NewError(err, dispatcherrors.StoreConnectFailureExitCode)
		}
		if c.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				pg.Close()
				return nil, dispatcherrors.NewError(err, dispatcherrors.StoreMigrateFailureExitCode)
			}
		}
		return pg, nil
	}
	return nil, fmt.Errorf("unsupported store type: %s", c.Type)
}

type RemoteConfig struct {
	Type      string  `yaml:"Type"`      // http
	Timeout   string  `yaml:"Timeout"`   // default to 30s
	HttpTries int     `yaml:"HttpTries"` // default to 3
	RateLimit float64 `yaml:"RateLimit"` // requests per second, default to unlimited
}

func (c RemoteConfig) String() string {
	return fmt.Sprintf("RemoteConfig: Type: %s, Timeout: %s, HttpTries: %d, RateLimit: %g",
		c.Type, c.Timeout, c.HttpTries, c.RateLimit)
}

func (c RemoteConfig) Create(stat stats.StatsReceiver) (client.Client, error) {
	if c.Type != "http" {
		return nil, fmt.Errorf("unsupported remote type: %s", c.Type)
	}
	timeout, err := parseDuration("Remote.Timeout", c.Timeout)
	if err != nil {
		return nil, err
	}
	return client.NewHTTPClient(client.Config{
		Timeout:   timeout,
		HttpTries: c.HttpTries,
		RateLimit: c.RateLimit,
	}, stat), nil
}

// SchedulerConfig durations are Go duration strings, empty ones take the
// dispatcher's defaults.
type SchedulerConfig struct {
	Type                   string `yaml:"Type"`     // polling
	PoolSize               int    `yaml:"PoolSize"` // default to 50
	JobSchedulerInterval   string `yaml:"JobSchedulerInterval"`
	StaggerDelay           string `yaml:"StaggerDelay"`
	JobWatcherInterval     string `yaml:"JobWatcherInterval"`
	JobCheckThreshold      string `yaml:"JobCheckThreshold"`
	ContactWatcherInterval string `yaml:"ContactWatcherInterval"`
	ContactCheckThreshold  string `yaml:"ContactCheckThreshold"`
	ReportPrunerInterval   string `yaml:"ReportPrunerInterval"`
	ReportRetention        string `yaml:"ReportRetention"`
	CancelRecheckDelay     string `yaml:"CancelRecheckDelay"`
	DeleteDataTries        int    `yaml:"DeleteDataTries"`
}

func (c SchedulerConfig) String() string {
	return fmt.Sprintf("SchedulerConfig: Type: %s, PoolSize: %d, JobSchedulerInterval: %s, StaggerDelay: %s, "+
		"JobWatcherInterval: %s, JobCheckThreshold: %s, ContactWatcherInterval: %s, ContactCheckThreshold: %s, "+
		"ReportPrunerInterval: %s, ReportRetention: %s, CancelRecheckDelay: %s, DeleteDataTries: %d",
		c.Type, c.PoolSize, c.JobSchedulerInterval, c.StaggerDelay, c.JobWatcherInterval, c.JobCheckThreshold,
		c.ContactWatcherInterval, c.ContactCheckThreshold, c.ReportPrunerInterval, c.ReportRetention,
		c.CancelRecheckDelay, c.DeleteDataTries)
}

// CreateDispatcherConfig parses the durations.
func (c SchedulerConfig) CreateDispatcherConfig() (server.Config, error) {
	if c.Type != "polling" {
		return server.Config{}, fmt.Errorf("unsupported scheduler type: %s", c.Type)
	}
	cfg := server.Config{DeleteDataTries: c.DeleteDataTries}
	fields := []struct {
		name string
		text string
		dst  *time.Duration
	}{
		{"JobSchedulerInterval", c.JobSchedulerInterval, &cfg.JobSchedulerInterval},
		{"StaggerDelay", c.StaggerDelay, &cfg.StaggerDelay},
		{"JobWatcherInterval", c.JobWatcherInterval, &cfg.JobWatcherInterval},
		{"JobCheckThreshold", c.JobCheckThreshold, &cfg.JobCheckThreshold},
		{"ContactWatcherInterval", c.ContactWatcherInterval, &cfg.ContactWatcherInterval},
		{"ContactCheckThreshold", c.ContactCheckThreshold, &cfg.ContactCheckThreshold},
		{"ReportPrunerInterval", c.ReportPrunerInterval, &cfg.ReportPrunerInterval},
		{"ReportRetention", c.ReportRetention, &cfg.ReportRetention},
		{"CancelRecheckDelay", c.CancelRecheckDelay, &cfg.CancelRecheckDelay},
	}
	for _, f := range fields {
		d, err := parseDuration("Scheduler."+f.name, f.text)
		if err != nil {
			return server.Config{}, err
		}
		*f.dst = d
	}
	return cfg.WithDefaults(), nil
}

type AdminConfig struct {
	Type string `yaml:"Type"` // http, none
	Addr string `yaml:"Addr"`
}

func (c AdminConfig) String() string {
	return fmt.Sprintf("AdminConfig: Type: %s, Addr: %s", c.Type, c.Addr)
}

func parseDuration(name, text string) (time.Duration, error) {
	if text == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return d, nil
}

// GetConfigText returns the text of a named preset.
func GetConfigText(configSelector string) ([]byte, error) {
	configText, ok := ServiceConfigs[configSelector]
	if !ok {
		return nil, fmt.Errorf("invalid configuration %s, supported values are %v", configSelector, presetNames())
	}
	return []byte(configText), nil
}

func presetNames() []string {
	keys := make([]string, 0, len(ServiceConfigs))
	for k := range ServiceConfigs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetConfig loads a preset by name, or else a config file at that path.
func GetConfig(configSelector string) (*ServiceConfig, error) {
	configText, err := GetConfigText(configSelector)
	if err != nil {
		var readErr error
		configText, readErr = ioutil.ReadFile(configSelector)
		if readErr != nil {
			return nil, fmt.Errorf("%v, and no such config file: %v", err, readErr)
		}
	}
	return ParseConfig(configText)
}

// ParseConfig reads config text, using the default preset for any section
// whose Type is not set.
func ParseConfig(configText []byte) (*ServiceConfig, error) {
	defaultText, _ := GetConfigText("default")
	defaultConfig := &ServiceConfig{}
	if err := yaml.Unmarshal(defaultText, defaultConfig); err != nil {
		return nil, fmt.Errorf("couldn't parse the default config: %v", err)
	}

	cfg := &ServiceConfig{}
	if err := yaml.Unmarshal(configText, cfg); err != nil {
		return nil, fmt.Errorf("couldn't parse top-level config: %v", err)
	}

	if cfg.Store.Type == "" {
		log.Infof("using default Store config")
		cfg.Store = defaultConfig.Store
	}
	if cfg.Remote.Type == "" {
		log.Infof("using default Remote config")
		cfg.Remote = defaultConfig.Remote
	}
	if cfg.Scheduler.Type == "" {
		log.Infof("using default Scheduler config")
		cfg.Scheduler = defaultConfig.Scheduler
	}
	if cfg.Admin.Type == "" {
		log.Infof("using default Admin config")
		cfg.Admin = defaultConfig.Admin
	}
	return cfg, nil
}
