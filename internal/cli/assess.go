package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type AssessOptions struct {
	JobID string
}

func DefaultAssessOptions() *AssessOptions {
	return &AssessOptions{}
}

func NewCmdAssess() *cobra.Command {
	o := DefaultAssessOptions()
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess all pending photos, optionally restricted to one job.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *AssessOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.JobID, "job", o.JobID, "Only assess photos belonging to this job.")
}

func (o *AssessOptions) Run(cmd *cobra.Command) error {
	env, cleanup, err := newEnvironment()
	if err != nil {
		return err
	}
	defer cleanup()

	assessments, err := env.assessments.ProcessPendingPhotos(cmd.Context(), o.JobID)
	if err != nil {
		return err
	}

	// Refresh the summary of every job that gained assessments.
	jobs := make(map[string]struct{})
	for _, a := range assessments {
		jobs[a.JobID] = struct{}{}
	}
	for jobID := range jobs {
		if _, err := env.assessments.Summarize(cmd.Context(), jobID); err != nil {
			return err
		}
	}

	fmt.Printf("assessed %d photos across %d jobs\n", len(assessments), len(jobs))
	return nil
}
