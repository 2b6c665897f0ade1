package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"

	"github.com/intellirefer/referctl/internal/guard"
)

type UploadOptions struct {
	GlobalOptions

	filePath   string
	title      string
	clientName string
}

func DefaultUploadOptions() *UploadOptions {
	return &UploadOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdUpload() *cobra.Command {
	o := DefaultUploadOptions()
	cmd := &cobra.Command{
		Use:          "upload [resume|jd]",
		Short:        "Upload a resume or a job description",
		Example:      "upload jd --file-path /path/to/jd.pdf --title 'Backend Engineer' --client-name Acme",
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

	if err := markRequiredFlags(cmd, "file-path"); err != nil {
		panic(err)
	}

	return cmd
}

func markRequiredFlags(cmd *cobra.Command, requiredFlags ...string) error {
	for _, flag := range requiredFlags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			return err
		}
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if funk.Contains(requiredFlags, f.Name) {
			f.Usage = fmt.Sprintf("%s (required)", f.Usage)
		}
	})

	return nil
}

func (o *UploadOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.filePath, "file-path", o.filePath, "Path to the resume or JD document")
	fs.StringVar(&o.title, "title", o.title, "JD title (jd uploads only)")
	fs.StringVar(&o.clientName, "client-name", o.clientName, "Client name (jd uploads only)")
}

func (o *UploadOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	switch args[0] {
	case "resume":
		return nil
	case "jd":
		// Inline validation before any network call.
		if o.title == "" || o.clientName == "" {
			return fmt.Errorf("--title and --client-name are required for jd uploads")
		}
		return nil
	default:
		return fmt.Errorf("invalid upload type '%s'. Supported types: resume, jd", args[0])
	}
}

func (o *UploadOptions) Run(ctx context.Context, args []string) error {
	switch args[0] {
	case "resume":
		return o.uploadResume(ctx)
	default:
		return o.uploadJd(ctx)
	}
}

func (o *UploadOptions) uploadResume(ctx context.Context) error {
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

	f, err := os.Open(o.filePath)
	if err != nil {
		return fmt.Errorf("opening resume file: %w", err)
	}
	defer f.Close()

	message, err := c.UploadResume(ctx, filepath.Base(o.filePath), f)
	if err != nil {
		return fmt.Errorf("uploading resume: %w", err)
	}

	fmt.Printf("\n%s\n", message.Message)
	return nil
}

func (o *UploadOptions) uploadJd(ctx context.Context) error {
	store, err := o.SessionStore()
	if err != nil {
		return err
	}
	if err := o.EnsureRoute(store, guard.ManagerDashboardPath); err != nil {
		return err
	}

	c, err := o.Client(store)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	f, err := os.Open(o.filePath)
	if err != nil {
		return fmt.Errorf("opening jd file: %w", err)
	}
	defer f.Close()

	jd, err := c.CreateJobDescription(ctx, o.title, o.clientName, filepath.Base(o.filePath), f)
	if err != nil {
		return fmt.Errorf("uploading jd: %w", err)
	}

	fmt.Printf("\nJD %d (%s) created for %s\n", jd.Id, jd.Title, jd.ClientName)
	return nil
}
