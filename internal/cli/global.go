package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/intellirefer/referctl/internal/client"
	"github.com/intellirefer/referctl/internal/config"
	"github.com/intellirefer/referctl/internal/guard"
	"github.com/intellirefer/referctl/internal/session"
)

type GlobalOptions struct {
	ServerUrl string
	ConfigDir string
}

func DefaultGlobalOptions() GlobalOptions {
	o := GlobalOptions{
		ServerUrl: "http://localhost:8080",
	}
	cfg, err := config.New()
	if err != nil {
		return o
	}
	o.ServerUrl = cfg.Service.Server
	o.ConfigDir = cfg.Service.ConfigDir
	return o
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server")
	fs.StringVar(&o.ConfigDir, "config-dir", o.ConfigDir, "Directory holding client config and session files")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	// A persisted client config wins over the env default, but never over an
	// explicit flag.
	if !cmd.Flags().Changed("server-url") {
		if cfg, err := client.ParseConfigFile(client.DefaultClientConfigPath(o.ConfigDir)); err == nil {
			o.ServerUrl = cfg.Service.Server
		}
	}
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	cfg := client.Config{Service: client.Service{Server: o.ServerUrl}}
	return cfg.Validate()
}

// SessionStore loads the persisted session for this invocation.
func (o *GlobalOptions) SessionStore() (*session.Store, error) {
	store, err := session.Load(session.DefaultSessionPath(o.ConfigDir))
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return store, nil
}

// Client builds the API client with the full editor chain. The bearer editor
// is the only place the credential touches a request.
func (o *GlobalOptions) Client(store *session.Store) (*client.Client, error) {
	return client.NewFromConfig(
		&client.Config{Service: client.Service{Server: o.ServerUrl}},
		client.WithRequestEditorFn(client.BearerEditor(store)),
	)
}

// EnsureRoute runs the navigation guard for the command's route and turns
// redirects into actionable errors.
func (o *GlobalOptions) EnsureRoute(store *session.Store, path string) error {
	decision := guard.Resolve(path, store.Get())
	switch decision.Kind {
	case guard.RedirectLogin:
		return fmt.Errorf("not logged in: run 'referctl login' first")
	case guard.RedirectUnauthorized:
		return fmt.Errorf("role %s is not allowed to access %s", store.Get().Role, path)
	default:
		return nil
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}
