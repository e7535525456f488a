// Package client holds what every dispatcher CLI command shares.
package client

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/benchly/dispatch/common/stats"
	"github.com/benchly/dispatch/scheduler/config"
	"github.com/benchly/dispatch/scheduler/starter"
)

// Client interface that includes CLI handling
type CLIClient interface {
	Exec() error
}

// SimpleClient includes base fields required for implementing commands
type SimpleClient struct {
	RootCmd    *cobra.Command
	ConfigName string
	LogLevel   string
	Config     *config.ServiceConfig
	Stats      stats.StatsReceiver

	// Built on first use by Connect, unless set beforehand.
	Service *starter.Service
	owned   bool
}

// Connect returns the service commands act on, building it from Config if needed.
// Nothing is started.
func (c *SimpleClient) Connect(ctx context.Context) (*starter.Service, error) {
	if c.Service != nil {
		return c.Service, nil
	}
	svc, err := starter.MakeService(ctx, c.Config, c.Stats)
	if err != nil {
		return nil, err
	}
	c.Service, c.owned = svc, true
	return svc, nil
}

// Release closes the service if Connect built it.
func (c *SimpleClient) Release() {
	if c.owned && c.Service != nil {
		c.Service.Close()
		c.Service, c.owned = nil, false
	}
}

// Command interface used to run client commands
type Cmd interface {
	RegisterFlags() *cobra.Command
	Run(cl *SimpleClient, cmd *cobra.Command, args []string) error
}
