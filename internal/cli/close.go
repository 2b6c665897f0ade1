package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/guard"
	"github.com/intellirefer/referctl/internal/review"
)

type CloseOptions struct {
	GlobalOptions

	Yes bool
}

func DefaultCloseOptions() *CloseOptions {
	return &CloseOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdClose() *cobra.Command {
	o := DefaultCloseOptions()
	cmd := &cobra.Command{
		Use:          "close JD_ID",
		Short:        "Close an open job description",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (o *CloseOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	_, err := parseID(args[0])
	return err
}

func (o *CloseOptions) Run(ctx context.Context, args []string) error {
	jdID, _ := parseID(args[0])

	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	if err := o.EnsureRoute(store, guard.ManagerDashboardPath); err != nil {
		return err
	}

	if !o.Yes && !confirm(fmt.Sprintf("Close JD %d? This cannot be undone.", jdID)) {
		return nil
	}

	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	jds, err := c.ListJobDescriptions(ctx)
	if err != nil {
		return fmt.Errorf("listing jds: %w", err)
	}

	outcomes := make(chan review.Outcome, 1)
	controller := review.NewController(
		func(jd api.JobDescription) int64 { return jd.Id },
		func(outcome review.Outcome) { outcomes <- outcome },
	)
	controller.Replace(jds)

	err = controller.PerformAction(ctx, jdID, review.Action[api.JobDescription]{
		Kind: review.ActionUpdateStatus,
		Name: "close",
		Mutate: func(jd api.JobDescription) api.JobDescription {
			jd.Status = api.JdStatusClosed
			return jd
		},
		Commit: func(ctx context.Context, itemID int64) error {
			return c.CloseJobDescription(ctx, itemID)
		},
	})
	if errors.Is(err, review.ErrItemNotFound) {
		return fmt.Errorf("jd %d not found", jdID)
	}
	if err != nil {
		return err
	}

	// The status flips locally before the server answers.
	printJdTable(controller.Items()...)

	controller.Wait()
	outcome := <-outcomes
	if outcome.RolledBack {
		fmt.Println("\nClosing failed, the status has been restored:")
		printJdTable(controller.Items()...)
		return fmt.Errorf("closing jd %d: %w", jdID, outcome.Err)
	}
	return nil
}
