package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benchly/dispatch/common/client"
	"github.com/benchly/dispatch/scheduler/starter"
)

type serveCmd struct{}

func (c *serveCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dispatcher until interrupted",
		Args:  cobra.NoArgs,
	}
}

func (c *serveCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return starter.StartServer(ctx, cl.Config, cl.Stats)
}
