package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"correioszpl/internal/dispatch"
	"correioszpl/internal/spool"
)

type printOutcome struct {
	ID          string `json:"id"`
	TrackNumber string `json:"track_number"`
	Transport   string `json:"transport"`
	Destination string `json:"destination"`
	JobID       int    `json:"job_id,omitempty"`
	State       string `json:"state,omitempty"`
}

func newPrintCommand(ctx *commandContext) *cobra.Command {
	var flags printerFlags
	var wait bool
	var waitTimeout time.Duration
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "print [request.json]",
		Short: "Render a label request and send it to the printer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.openService(true)
			if err != nil {
				return err
			}
			defer svc.Close()

			req, err := readRequest(cmd, args, svc.options)
			if err != nil {
				return err
			}
			flags.apply(req.Options)

			res, err := svc.service.PrintLabel(cmd.Context(), req)
			if err != nil {
				return err
			}

			outcome := printOutcome{
				ID:          res.ID,
				Transport:   res.Transport,
				Destination: res.Destination,
			}
			if req.Label != nil {
				outcome.TrackNumber = req.Label.TrackNumber
			}
			if res.Job != nil {
				outcome.JobID = res.Job.ID()
				outcome.State = string(res.Job.State())
				if wait {
					state, err := waitForJob(cmd, res.Job, waitTimeout)
					if err != nil {
						return err
					}
					outcome.State = string(state)
				}
			}

			if jsonOutput {
				return writeJSON(cmd, outcome)
			}
			printOutcomeText(cmd, outcome)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait until the spool job completes or is deleted")
	cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 10*time.Minute, "Give up waiting after this long (0 waits forever)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// waitForJob blocks until the job is terminal. A job that leaves the queue
// without ever printing stays sent, so a timeout bounds the wait.
func waitForJob(cmd *cobra.Command, job *spool.Job, timeout time.Duration) (spool.State, error) {
	if job.ID() == 0 {
		return job.State(), errors.New("cannot wait: spool did not report a job identifier")
	}
	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	state, err := job.Wait(ctx)
	if err != nil {
		return state, fmt.Errorf("wait for job %d: %w", job.ID(), err)
	}
	return state, nil
}

func printOutcomeText(cmd *cobra.Command, o printOutcome) {
	out := cmd.OutOrStdout()
	switch o.Transport {
	case dispatch.TypeSpool:
		fmt.Fprintf(out, "Label %s queued on %s (job %d, %s)\n", o.TrackNumber, o.Destination, o.JobID, o.State)
	default:
		fmt.Fprintf(out, "Label %s sent to %s\n", o.TrackNumber, o.Destination)
	}
	fmt.Fprintf(out, "Dispatch ID: %s\n", o.ID)
}
