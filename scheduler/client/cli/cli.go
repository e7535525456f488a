package cli

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	commoncli "github.com/benchly/dispatch/common/client"
	"github.com/benchly/dispatch/common/endpoints"
	"github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/scheduler/config"
)

// DispatchCLIClient includes fields required for CLI client handling
type DispatchCLIClient struct {
	commoncli.SimpleClient
}

func (c *DispatchCLIClient) Exec() error {
	return c.RootCmd.Execute()
}

func NewSimpleCLIClient() (commoncli.CLIClient, error) {
	return newCLIClient(), nil
}

func newCLIClient() *DispatchCLIClient {
	c := &DispatchCLIClient{}
	c.RootCmd = &cobra.Command{
		Use:                "dispatcher",
		Short:              "dispatcher places jobs on remote contacts and tracks them",
		SilenceUsage:       true,
		PersistentPreRunE:  c.Init,
		Run:                func(*cobra.Command, []string) {},
		PersistentPostRunE: c.Close,
	}
	c.RootCmd.PersistentFlags().StringVar(&c.ConfigName, "config", "local.memory", "Config preset (default|local.memory|local.postgres) or a config file")
	c.RootCmd.PersistentFlags().StringVar(&c.LogLevel, "log_level", "info", "Log everything at this level and above (error|info|debug)")

	c.addCmd(c.RootCmd, &serveCmd{})

	contact := &cobra.Command{Use: "contact", Short: "Manage contacts"}
	c.RootCmd.AddCommand(contact)
	c.addCmd(contact, &addContactCmd{})
	c.addCmd(contact, &listContactsCmd{})

	job := &cobra.Command{Use: "job", Short: "Manage jobs"}
	c.RootCmd.AddCommand(job)
	c.addCmd(job, &createJobCmd{})
	c.addCmd(job, &cancelJobCmd{})
	c.addCmd(job, &jobMessagesCmd{})

	admin := &cobra.Command{Use: "admin", Short: "Operator alerts"}
	c.RootCmd.AddCommand(admin)
	c.addCmd(admin, &adminMessagesCmd{})

	return c
}

// Can only be called from cobra command run or hook
func (c *DispatchCLIClient) Init(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Error(err)
		return err
	}
	log.SetLevel(level)

	if c.Config == nil {
		if c.Config, err = config.GetConfig(c.ConfigName); err != nil {
			return errors.NewError(err, errors.ConfigFailureExitCode)
		}
	}
	if c.Stats == nil {
		c.Stats = endpoints.MakeStatsReceiver("dispatcher")
	}
	return nil
}

// Needs cobra parameters for use from rootCmd
func (c *DispatchCLIClient) Close(cmd *cobra.Command, args []string) error {
	c.Release()
	return nil
}

func (c *DispatchCLIClient) addCmd(parent *cobra.Command, cmd commoncli.Cmd) {
	cobraCmd := cmd.RegisterFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.Run(&c.SimpleClient, innerCmd, args)
	}
	parent.AddCommand(cobraCmd)
}

func parseID(args []string, what string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("A %s id must be provided", what)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid %s id %q: %v", what, args[0], err)
	}
	return id, nil
}
