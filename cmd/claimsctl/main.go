package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/cli"
)

func main() {
	command := NewClaimsCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewClaimsCtlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claimsctl [flags] [options]",
		Short: "claimsctl drives the storm damage claims pipeline by hand.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdAssess())
	cmd.AddCommand(cli.NewCmdSummarize())
	cmd.AddCommand(cli.NewCmdClaims())
	cmd.AddCommand(cli.NewCmdStatus())
	cmd.AddCommand(cli.NewCmdPayments())
	cmd.AddCommand(cli.NewCmdReport())

	return cmd
}
