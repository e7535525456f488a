package cli

import (
	"context"
	"fmt"
	"io/ioutil"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/benchly/dispatch/common/client"
	"github.com/benchly/dispatch/scheduler/domain"
)

type createJobCmd struct {
	workflowFile string
	ownerID      int64
	memory       int64
	seconds      int64
}

func (c *createJobCmd) RegisterFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "create",
		Short: "Queue a job for a workflow definition",
		Args:  cobra.NoArgs,
	}
	r.Flags().StringVar(&c.workflowFile, "workflow", "", "File holding the workflow definition")
	r.Flags().Int64Var(&c.ownerID, "owner", 0, "Owner id")
	r.Flags().Int64Var(&c.memory, "memory", 0, "Estimated memory in bytes")
	r.Flags().Int64Var(&c.seconds, "time", 0, "Estimated run time in seconds")
	return r
}

func (c *createJobCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	if c.workflowFile == "" {
		return fmt.Errorf("A workflow file must be provided")
	}
	definition, err := ioutil.ReadFile(c.workflowFile)
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, err := cl.Connect(ctx)
	if err != nil {
		return err
	}
	wf, err := svc.Store.CreateWorkflow(ctx, c.ownerID, string(definition))
	if err != nil {
		return err
	}
	job := &domain.Job{
		OwnerID:         c.ownerID,
		WorkflowID:      wf,
		EstimatedMemory: c.memory,
		EstimatedTime:   c.seconds,
	}
	if err := svc.Dispatcher.CreateJob(ctx, job); err != nil {
		return fmt.Errorf("Error creating job: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created job %d\n", job.ID)
	return nil
}

type cancelJobCmd struct{}

func (c *cancelJobCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel JOB_ID",
		Short: "Ask the executing contact to cancel a job",
	}
}

func (c *cancelJobCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	id, err := parseID(args, "job")
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, err := cl.Connect(ctx)
	if err != nil {
		return err
	}
	log.Infof("Canceling job %d", id)
	if err := svc.Dispatcher.CancelJob(ctx, id); err != nil {
		return fmt.Errorf("Error canceling job: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cancel of job %d acknowledged\n", id)
	return nil
}

type jobMessagesCmd struct{}

func (c *jobMessagesCmd) RegisterFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "messages JOB_ID",
		Short: "Show the messages recorded for a job",
	}
}

func (c *jobMessagesCmd) Run(cl *client.SimpleClient, cmd *cobra.Command, args []string) error {
	id, err := parseID(args, "job")
	if err != nil {
		return err
	}
	ctx := context.Background()
	svc, err := cl.Connect(ctx)
	if err != nil {
		return err
	}
	msgs, err := svc.Store.ListJobMessages(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		origin := "local"
		if m.OriginContactID != 0 {
			origin = fmt.Sprintf("contact %d", m.OriginContactID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", m.RecordedAt.Format("2006-01-02T15:04:05"), origin, m.Content)
	}
	return nil
}
