package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/guard"
)

var legalReferralStatuses = []string{
	string(api.ReferralStatusPending),
	string(api.ReferralStatusReserved),
	string(api.ReferralStatusSelected),
	string(api.ReferralStatusRejected),
}

type GetOptions struct {
	GlobalOptions

	Output string
	Status string
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:          "get (profile | jds | recommendations JD_ID | selected)",
		Short:        "Display one or many resources.",
		Args:         cobra.RangeArgs(1, 2),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("Filter recommendations by referral status. One of: (%s).", strings.Join(legalReferralStatuses, ", ")))
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if _, err := parseKind(args[0]); err != nil {
		return err
	}
	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	if len(o.Status) > 0 && !funk.Contains(legalReferralStatuses, o.Status) {
		return fmt.Errorf("status must be one of %s", strings.Join(legalReferralStatuses, ", "))
	}
	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	kind, _ := parseKind(args[0])

	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	if err := o.EnsureRoute(store, routeForKind(kind, args)); err != nil {
		return err
	}

	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	switch kind {
	case ProfileKind:
		profile, err := c.GetProfile(ctx)
		if err != nil {
			return fmt.Errorf("reading profile: %w", err)
		}
		return printResource(profile, o.Output, func() { printProfileTable(*profile) })
	case JdKind:
		jds, err := c.ListJobDescriptions(ctx)
		if err != nil {
			return fmt.Errorf("listing jds: %w", err)
		}
		return printResource(jds, o.Output, func() { printJdTable(jds...) })
	case RecommendationKind:
		if len(args) < 2 {
			return fmt.Errorf("recommendations require a JD_ID argument")
		}
		jdID, err := parseID(args[1])
		if err != nil {
			return err
		}
		recommendations, err := c.ListRecommendations(ctx, jdID)
		if err != nil {
			return fmt.Errorf("listing recommendations: %w", err)
		}
		if len(o.Status) > 0 {
			recommendations = filterByStatus(recommendations, api.StringToReferralStatus(o.Status))
		}
		return printResource(recommendations, o.Output, func() { printRecommendationTable(recommendations...) })
	case SelectedKind:
		selected, err := c.ListSelectedEmployees(ctx)
		if err != nil {
			return fmt.Errorf("listing selected employees: %w", err)
		}
		return printResource(selected, o.Output, func() { printSelectedTable(selected...) })
	default:
		return fmt.Errorf("unsupported resource kind: %s", kind)
	}
}

func filterByStatus(recommendations []api.Recommendation, status api.ReferralStatus) []api.Recommendation {
	filtered := make([]api.Recommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		if rec.Status == status {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// routeForKind maps a resource kind to the route the guard gates it by.
func routeForKind(kind string, args []string) string {
	switch kind {
	case ProfileKind:
		return guard.EmployeeDashboardPath
	case JdKind:
		return guard.ManagerDashboardPath
	case RecommendationKind:
		if len(args) > 1 {
			return fmt.Sprintf("/manager/jds/%s", args[1])
		}
		return guard.ManagerDashboardPath
	case SelectedKind:
		return "/manager/selected"
	default:
		return "/"
	}
}

func printProfileTable(profile api.EmployeeProfile) {
	w := newTabWriter()
	fmt.Fprintln(w, "NAME\tEMAIL\tEXPERIENCE\tAVAILABILITY\tLEVEL\tROLE\tSKILLS")
	fmt.Fprintf(w, "%s\t%s\t%dy\t%s\t%s\t%s\t%s\n",
		profile.FullName, profile.Email, profile.YearsOfExperience, profile.Availability,
		profile.JobLevel, profile.CurrentRole, strings.Join(profile.Skills, ","))
	w.Flush()
}

func printJdTable(jds ...api.JobDescription) {
	w := newTabWriter()
	fmt.Fprintln(w, "ID\tTITLE\tCLIENT\tSTATUS")
	for _, jd := range jds {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", jd.Id, jd.Title, jd.ClientName, jd.Status)
	}
	w.Flush()
}

func printRecommendationTable(recommendations ...api.Recommendation) {
	w := newTabWriter()
	fmt.Fprintln(w, "REFERRAL\tNAME\tROLE\tLEVEL\tEXPERIENCE\tAVAILABILITY\tSCORE\tSTATUS")
	for _, rec := range recommendations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%dy\t%s\t%d%%\t%s\n",
			rec.ReferralId, rec.EmployeeFullName, rec.CurrentRole, rec.JobLevel,
			rec.YearsOfExperience, rec.Availability, rec.MatchScore, rec.Status)
	}
	w.Flush()
}

func printSelectedTable(selected ...api.SelectedEmployee) {
	w := newTabWriter()
	fmt.Fprintln(w, "EMPLOYEE\tEMAIL\tAVAILABILITY\tJOB\tCLIENT")
	for _, s := range selected {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.EmployeeFullName, s.EmployeeEmail, s.Availability, s.JobTitle, s.ClientName)
	}
	w.Flush()
}
