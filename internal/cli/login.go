package cli

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	api "github.com/intellirefer/referctl/api/v1alpha1"
	"github.com/intellirefer/referctl/internal/client"
	"github.com/intellirefer/referctl/internal/guard"
)

type LoginOptions struct {
	GlobalOptions

	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func DefaultLoginOptions() *LoginOptions {
	return &LoginOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdLogin() *cobra.Command {
	o := DefaultLoginOptions()
	cmd := &cobra.Command{
		Use:          "login",
		Short:        "Authenticate and persist the session",
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

func (o *LoginOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Email, "email", o.Email, "Account email")
	fs.StringVar(&o.Password, "password", o.Password, "Account password")
}

func (o *LoginOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	// Validation failures never reach the network.
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid login input: %w", err)
	}
	return nil
}

func (o *LoginOptions) Run(ctx context.Context, args []string) error {
	store, err := o.SessionStore()
	if err != nil {
		return err
	}

	// The guard's login-path rule: an authenticated session landing exactly
	// on the login path is sent to its dashboard instead.
	if decision := guard.Resolve(guard.LoginPath, store.Get()); decision.Kind == guard.RedirectDashboard {
		fmt.Printf("Already logged in as %s. Dashboard: %s. Run 'referctl logout' to switch accounts.\n", store.Get().Role, decision.Target)
		return nil
	}

	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	auth, err := c.Login(ctx, api.LoginRequest{Email: o.Email, Password: o.Password})
	if err != nil {
		// No credential is stored and no navigation happens on failure.
		return fmt.Errorf("login failed: %w", err)
	}

	if err := store.Set(auth.AccessToken, auth.Role); err != nil {
		return err
	}
	if err := client.WriteConfig(client.DefaultClientConfigPath(o.ConfigDir), o.ServerUrl); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s. Dashboard: %s\n", auth.Role, guard.DashboardFor(auth.Role))
	return nil
}

type RegisterOptions struct {
	GlobalOptions

	FullName          string `validate:"required"`
	Email             string `validate:"required,email"`
	Password          string `validate:"required,min=8"`
	YearsOfExperience int    `validate:"gte=0"`
}

func DefaultRegisterOptions() *RegisterOptions {
	return &RegisterOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdRegister() *cobra.Command {
	o := DefaultRegisterOptions()
	cmd := &cobra.Command{
		Use:          "register",
		Short:        "Create a new employee account",
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

func (o *RegisterOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.FullName, "full-name", o.FullName, "Full name")
	fs.StringVar(&o.Email, "email", o.Email, "Account email")
	fs.StringVar(&o.Password, "password", o.Password, "Account password")
	fs.IntVar(&o.YearsOfExperience, "years-of-experience", o.YearsOfExperience, "Years of professional experience")
}

func (o *RegisterOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if err := validator.New().Struct(o); err != nil {
		return fmt.Errorf("invalid registration input: %w", err)
	}
	return nil
}

func (o *RegisterOptions) Run(ctx context.Context, args []string) error {
	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	if err := c.Register(ctx, api.RegisterRequest{
		FullName:          o.FullName,
		Email:             o.Email,
		Password:          o.Password,
		YearsOfExperience: o.YearsOfExperience,
	}); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("Registration successful. Run 'referctl login' to sign in.")
	return nil
}

type LogoutOptions struct {
	GlobalOptions
}

func NewCmdLogout() *cobra.Command {
	o := &LogoutOptions{GlobalOptions: DefaultGlobalOptions()}
	cmd := &cobra.Command{
		Use:          "logout",
		Short:        "Clear the persisted session",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *LogoutOptions) Run(ctx context.Context, args []string) error {
	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
