package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/intellirefer/referctl/internal/cli"
	"github.com/intellirefer/referctl/internal/config"
	"github.com/intellirefer/referctl/pkg/log"
	"github.com/intellirefer/referctl/pkg/requestid"
)

func main() {
	logLevel := "info"
	if cfg, err := config.New(); err == nil {
		logLevel = cfg.Service.LogLevel
	}
	logger := log.InitLog(log.ParseLevel(logLevel))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := NewReferCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewReferCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "referctl [flags] [options]",
		Short: "referctl is the IntelliRefer client for employees and managers.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// One request id tags every call this invocation issues.
			cmd.SetContext(requestid.ToContext(cmd.Context(), requestid.Generate()))
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdLogin())
	cmd.AddCommand(cli.NewCmdRegister())
	cmd.AddCommand(cli.NewCmdLogout())
	cmd.AddCommand(cli.NewCmdGet())
	cmd.AddCommand(cli.NewCmdUpdate())
	cmd.AddCommand(cli.NewCmdUpload())
	cmd.AddCommand(cli.NewCmdClose())
	cmd.AddCommand(cli.NewCmdReview())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
