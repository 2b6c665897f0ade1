package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intellirefer/referctl/pkg/version"
)

type VersionOptions struct{}

func NewCmdVersion() *cobra.Command {
	o := &VersionOptions{}
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print referctl version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
	}
	return cmd
}

func (o *VersionOptions) Run(ctx context.Context, args []string) error {
	versionInfo := version.Get()
	fmt.Printf("referctl Version: %s\n", versionInfo.String())
	return nil
}
