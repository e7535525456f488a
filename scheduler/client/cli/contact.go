package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/benchly/dispatch/common/client"
	dispatcherrors "github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/workerapi"
)

type addContactCmd struct{}

func (c *addContactCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "add ENDPOINT",
		Short: "Register the server at ENDPOINT under the name it reports",
		Args:  cobra.ExactArgs(1),
	}
}

func (c *addContactCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := cl.Connect(ctx)
	if err != nil {
		return err
	}
	log.Infof("Adding contact at %s", args[0])
	contact, err := svc.Dispatcher.AddContact(ctx, args[0])
	if workerapi.IsServerAccessError(errors.Cause(err)) {
		return dispatcherrors.NewError(fmt.Errorf("Error checking contact name: %v", err), dispatcherrors.NameCheckFailureExitCode)
	}
	if err != nil {
		return fmt.Errorf("Error adding contact: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added contact %d: %s\n", contact.ID, contact.Name)
	return nil
}

type listContactsCmd struct{}

func (c *listContactsCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts with their last known capacity",
		Args:  cobra.NoArgs,
	}
}

func (c *listContactsCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := cl.Connect(ctx)
	if err != nil {
		return err
	}
	contacts, err := svc.Store.ListContacts(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tENDPOINT\tREACHABILITY\tUSABLE_MEMORY\tRUNNING\tLAST_CHECKED")
	for _, contact := range contacts {
		checked := "never"
		if contact.LastChecked != nil {
			checked = contact.LastChecked.Format("2006-01-02T15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\n", contact.ID, contact.Name, contact.Endpoint,
			contact.Reachability, contact.ApproximateUsableMemory, contact.ApproximateRunningJobs, checked)
	}
	return w.Flush()
}
