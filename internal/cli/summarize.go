package cli

import (
	"github.com/spf13/cobra"
)

func NewCmdSummarize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize JOB_ID",
		Short: "Rebuild the damage summary for a job from its assessments.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := env.assessments.Summarize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
		SilenceUsage: true,
	}
	return cmd
}
