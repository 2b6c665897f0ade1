package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/guard"
)

var legalAvailabilities = []string{
	string(api.AvailabilityAvailable),
	string(api.AvailabilityOnProject),
	string(api.AvailabilityReserved),
}

type UpdateProfileOptions struct {
	GlobalOptions

	FullName                 string `validate:"omitempty,min=1"`
	YearsOfExperience        int
	Availability             string
	Skills                   []string
	JobLevel                 string
	CurrentRole              string
	ExpectedAvailabilityDate string
}

func DefaultUpdateProfileOptions() *UpdateProfileOptions {
	return &UpdateProfileOptions{
		GlobalOptions:     DefaultGlobalOptions(),
		YearsOfExperience: -1,
	}
}

func NewCmdUpdate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a resource",
	}
	cmd.AddCommand(newUpdateProfileCmd())
	return cmd
}

func newUpdateProfileCmd() *cobra.Command {
	o := DefaultUpdateProfileOptions()
	cmd := &cobra.Command{
		Use:          "profile",
		Short:        "Update the employee profile",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), cmd, args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *UpdateProfileOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.FullName, "full-name", o.FullName, "Full name")
	fs.IntVar(&o.YearsOfExperience, "years-of-experience", o.YearsOfExperience, "Years of professional experience")
	fs.StringVar(&o.Availability, "availability", o.Availability, fmt.Sprintf("Availability. One of: (%s)", strings.Join(legalAvailabilities, ", ")))
	fs.StringSliceVar(&o.Skills, "skills", o.Skills, "Skill list, comma separated")
	fs.StringVar(&o.JobLevel, "job-level", o.JobLevel, "Job level, e.g. SENIOR")
	fs.StringVar(&o.CurrentRole, "current-role", o.CurrentRole, "Current role, e.g. Backend Engineer")
	fs.StringVar(&o.ExpectedAvailabilityDate, "expected-availability-date", o.ExpectedAvailabilityDate, "Expected availability date (YYYY-MM-DD), only meaningful when on project")
}

func (o *UpdateProfileOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if len(o.Availability) > 0 && !funk.Contains(legalAvailabilities, o.Availability) {
		return fmt.Errorf("availability must be one of %s", strings.Join(legalAvailabilities, ", "))
	}
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid profile input: %w", err)
	}
	return nil
}

func (o *UpdateProfileOptions) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	if err := o.EnsureRoute(store, guard.EmployeeDashboardPath); err != nil {
		return err
	}

	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	// The form is pre-filled with the current profile; only flags the user
	// actually set override it.
	current, err := c.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}

	update := api.EmployeeProfileUpdate{
		FullName:                 current.FullName,
		YearsOfExperience:        current.YearsOfExperience,
		Availability:             current.Availability,
		Skills:                   current.Skills,
		JobLevel:                 current.JobLevel,
		CurrentRole:              current.CurrentRole,
		ExpectedAvailabilityDate: current.ExpectedAvailabilityDate,
	}

	if cmd.Flags().Changed("full-name") {
		update.FullName = o.FullName
	}
	if cmd.Flags().Changed("years-of-experience") {
		if o.YearsOfExperience < 0 {
			return fmt.Errorf("years of experience cannot be negative")
		}
		update.YearsOfExperience = o.YearsOfExperience
	}
	if cmd.Flags().Changed("availability") {
		update.Availability = api.StringToAvailabilityStatus(o.Availability)
	}
	if cmd.Flags().Changed("skills") {
		update.Skills = o.Skills
	}
	if cmd.Flags().Changed("job-level") {
		update.JobLevel = o.JobLevel
	}
	if cmd.Flags().Changed("current-role") {
		update.CurrentRole = o.CurrentRole
	}
	if cmd.Flags().Changed("expected-availability-date") {
		if o.ExpectedAvailabilityDate == "" {
			update.ExpectedAvailabilityDate = nil
		} else {
			update.ExpectedAvailabilityDate = &o.ExpectedAvailabilityDate
		}
	}
	// The date only makes sense while on a project.
	if update.Availability != api.AvailabilityOnProject {
		update.ExpectedAvailabilityDate = nil
	}

	updated, err := c.UpdateProfile(ctx, update)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	printProfileTable(*updated)
	return nil
}
