package cli

import (
	"github.com/spf13/cobra"
)

func NewCmdStatus() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status JOB_ID",
		Short: "Poll the submission status for a job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				return err
			}
			defer cleanup()

			submission, err := env.claims.CheckStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(submission)
		},
		SilenceUsage: true,
	}
	return cmd
}
