package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/store"
)

func NewCmdPayments() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect and process contractor payments.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(newCmdPaymentsList())
	cmd.AddCommand(newCmdPaymentsProcess())
	return cmd
}

func newCmdPaymentsList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all processed payments.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				return err
			}
			defer cleanup()

			payments, err := env.store.Payment().List(cmd.Context(), store.NewPaymentQueryFilter())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "JOB\tCONTRACTOR\tAMOUNT\tMETHOD\tPAID_AT")
			for _, p := range payments {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n", p.JobID, p.ContractorID, p.Amount, p.Method, p.PaidAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}
}

func newCmdPaymentsProcess() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Pay contractors for every approved, unpaid claim.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				return err
			}
			defer cleanup()

			payments, err := env.payments.ProcessApprovedClaims(cmd.Context())
			if err != nil {
				return err
			}

			for _, p := range payments {
				fmt.Printf("job %s paid %.2f to contractor %s\n", p.JobID, p.Amount, p.ContractorID)
			}
			fmt.Printf("processed %d payments\n", len(payments))
			return nil
		},
		SilenceUsage: true,
	}
}
