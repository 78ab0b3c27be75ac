package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const dateFormat = "2006-01-02"

type ReportOptions struct {
	Start string
	End   string
}

func DefaultReportOptions() *ReportOptions {
	return &ReportOptions{}
}

func NewCmdReport() *cobra.Command {
	o := DefaultReportOptions()
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a payment report for a date interval.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ReportOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.Start, "start", o.Start, "First day of the report interval (YYYY-MM-DD).")
	fs.StringVar(&o.End, "end", o.End, "Last day of the report interval (YYYY-MM-DD), inclusive.")
}

func (o *ReportOptions) Validate() error {
	if o.Start == "" || o.End == "" {
		return fmt.Errorf("both --start and --end are required")
	}
	start, err := time.Parse(dateFormat, o.Start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(dateFormat, o.End)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("--end must not precede --start")
	}
	return nil
}

func (o *ReportOptions) Run(cmd *cobra.Command) error {
	env, cleanup, err := newEnvironment()
	if err != nil {
		return err
	}
	defer cleanup()

	start, _ := time.Parse(dateFormat, o.Start)
	end, _ := time.Parse(dateFormat, o.End)

	report, err := env.payments.Report(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	return printJSON(report)
}
