package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/benchly/dispatch/common/client"
)

type adminMessagesCmd struct{}

func (c *adminMessagesCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "messages",
		Short: "Show alerts raised for operators",
		Args:  cobra.NoArgs,
	}
}

func (c *adminMessagesCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := cl.Connect(ctx)
	if err != nil {
		return err
	}
	msgs, err := svc.Store.ListAdminMessages(ctx)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s contact=%d %s\n", m.CreatedAt.Format("2006-01-02T15:04:05"), m.ContactID, m.Content)
	}
	return nil
}
