package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
)

func NewCmdClaims() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "claims",
		Short: "Inspect and process insurance claims.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(newCmdClaimsList())
	cmd.AddCommand(newCmdClaimsProcess())
	return cmd
}

func newCmdClaimsList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all formatted claims.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				return err
			}
			defer cleanup()

			claims, err := env.store.Claim().List(cmd.Context(), store.NewClaimQueryFilter())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tCLAIM\tSTATUS\tITEMS\tTOTAL")
			for _, c := range claims {
				items := 0
				if c.LineItems != nil {
					items = len(c.LineItems.Data)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n", c.JobID, c.ID, c.Status, items, c.Total)
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}
}

func newCmdClaimsProcess() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Format and submit claims for every ready job.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				return err
			}
			defer cleanup()

			submissions, err := env.claims.ProcessReadyJobs(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range submissions {
				fmt.Printf("job %s submitted as %s, estimated payout %.2f in %d days\n",
					s.JobID, s.ExternalRef, s.EstimatedPayout, s.EstimatedProcessingDays)
			}
			fmt.Printf("submitted %d claims\n", len(submissions))
			return nil
		},
		SilenceUsage: true,
	}
}
