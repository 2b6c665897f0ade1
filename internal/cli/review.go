package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/client"
	"github.com/intellirefer/referctl/internal/config"
	"github.com/intellirefer/referctl/internal/review"
)

type ReviewOptions struct {
	GlobalOptions

	RefreshInterval int
}

func DefaultReviewOptions() *ReviewOptions {
	o := &ReviewOptions{
		GlobalOptions:   DefaultGlobalOptions(),
		RefreshInterval: 30,
	}
	if cfg, err := config.New(); err == nil {
		o.RefreshInterval = cfg.Service.RefreshInterval
	}
	return o
}

func NewCmdReview() *cobra.Command {
	o := DefaultReviewOptions()
	cmd := &cobra.Command{
		Use:          "review JD_ID",
		Short:        "Review candidate recommendations for a job description",
		Long:         "Interactive review of recommendations. Actions apply to the list immediately and are confirmed with the server in the background; a failed action restores the list.",
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
	return cmd
}

func (o *ReviewOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.IntVar(&o.RefreshInterval, "refresh-interval", o.RefreshInterval, "Background refresh interval in seconds, 0 disables it")
}

func (o *ReviewOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	_, err := parseID(args[0])
	return err
}

func (o *ReviewOptions) Run(ctx context.Context, args []string) error {
	jdID, _ := parseID(args[0])

	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	if err := o.EnsureRoute(store, fmt.Sprintf("/manager/jds/%d", jdID)); err != nil {
		return err
	}

	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	fetch := func(ctx context.Context) ([]api.Recommendation, error) {
		recommendations, err := c.ListRecommendations(ctx, jdID)
		if err != nil {
			return nil, err
		}
		// Rejected candidates are dropped from the review view.
		visible := make([]api.Recommendation, 0, len(recommendations))
		for _, rec := range recommendations {
			if rec.Status != api.ReferralStatusRejected {
				visible = append(visible, rec)
			}
		}
		return visible, nil
	}

	initial, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("listing recommendations: %w", err)
	}

	controller := review.NewController(
		func(rec api.Recommendation) int64 { return rec.ReferralId },
		func(outcome review.Outcome) {
			if outcome.RolledBack {
				fmt.Fprintf(os.Stderr, "\n%s of referral %d failed, the list has been restored: %v\n", outcome.Action, outcome.ItemID, outcome.Err)
				return
			}
			fmt.Fprintf(os.Stderr, "\nreferral %d: %s confirmed\n", outcome.ItemID, outcome.Action)
		},
	)
	controller.Replace(initial)

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	if o.RefreshInterval > 0 {
		refresher := review.NewRefresher(controller, time.Duration(o.RefreshInterval)*time.Second, fetch)
		go refresher.Run(refreshCtx)
	}

	fmt.Printf("Reviewing recommendations for JD %d. Commands: select N, reserve N, reject N, list, refresh, quit\n\n", jdID)
	printRecommendationTable(controller.Items()...)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\naction> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "quit", "q":
			stopRefresh()
			controller.Wait()
			return nil
		case "list":
			printRecommendationTable(controller.Items()...)
			continue
		case "refresh":
			items, err := fetch(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
				continue
			}
			if !controller.ReplaceIfIdle(items) {
				fmt.Println("an action is still pending, refresh skipped")
				continue
			}
			printRecommendationTable(controller.Items()...)
			continue
		case "select", "reserve", "reject":
			if len(fields) < 2 {
				fmt.Printf("usage: %s REFERRAL_ID\n", fields[0])
				continue
			}
			referralID, err := parseID(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := o.performAction(ctx, controller, c, referralID, fields[0]); err != nil {
				fmt.Println(err)
				continue
			}
			printRecommendationTable(controller.Items()...)
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}

	stopRefresh()
	controller.Wait()
	return scanner.Err()
}

func (o *ReviewOptions) performAction(ctx context.Context, controller *review.Controller[api.Recommendation], c *client.Client, referralID int64, name string) error {
	action := review.Action[api.Recommendation]{
		Name: name,
		Commit: func(ctx context.Context, itemID int64) error {
			return c.ReferralAction(ctx, itemID, client.ReferralActionKind(name))
		},
	}

	// Selecting and rejecting remove the candidate from the view right away;
	// reserving only flips the status.
	switch name {
	case "reserve":
		action.Kind = review.ActionUpdateStatus
		action.Mutate = func(rec api.Recommendation) api.Recommendation {
			rec.Status = api.ReferralStatusReserved
			return rec
		}
	default:
		action.Kind = review.ActionRemove
	}

	err := controller.PerformAction(ctx, referralID, action)
	switch {
	case errors.Is(err, review.ErrActionPending):
		return fmt.Errorf("referral %d already has an action pending, wait for it to resolve", referralID)
	case errors.Is(err, review.ErrItemNotFound):
		return fmt.Errorf("referral %d is not in the list", referralID)
	default:
		return err
	}
}
