package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"

	"github.com/yourorg/zebra/internal/config"
	"github.com/yourorg/zebra/internal/types"
	"github.com/yourorg/zebra/internal/workflow"
)

// dial is swapped out in tests.
var dial = func(t config.Temporal) (client.Client, error) {
	return client.Dial(client.Options{HostPort: t.HostPort, Namespace: t.Namespace})
}

type submitFlags struct {
	WorkflowID string
	Wait       bool
}

func (f *submitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.WorkflowID, "workflow-id", "", "Workflow ID (default generated by the server client)")
	cmd.Flags().BoolVar(&f.Wait, "wait", false, "Block until the workflow finishes and print its result")
}

func newSubmitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Run a job on a zebra worker through Temporal",
	}
	cmd.AddCommand(newSubmitStripeCmd(a), newSubmitAssembleCmd(a), newSubmitRestripeCmd(a))
	return cmd
}

// start executes wf with arg on the configured task queue. With wait set, result receives the workflow output.
func (a *app) start(cmd *cobra.Command, f submitFlags, wf any, arg any, result any) (bool, error) {
	c, err := dial(a.cfg.Temporal)
	if err != nil {
		return false, fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	ctx := cmd.Context()
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        f.WorkflowID,
		TaskQueue: a.cfg.Temporal.TaskQueue,
	}, wf, arg)
	if err != nil {
		return false, fmt.Errorf("start workflow: %w", err)
	}
	fmt.Fprintf(a.out, "Started workflow %s (run %s) on %s\n", run.GetID(), run.GetRunID(), a.cfg.Temporal.TaskQueue)
	if !f.Wait {
		return false, nil
	}
	if err := run.Get(ctx, result); err != nil {
		return false, err
	}
	return true, nil
}

func newSubmitStripeCmd(a *app) *cobra.Command {
	var f stripeFlags
	var sf submitFlags
	cmd := &cobra.Command{
		Use:   "stripe -i SOURCE -o OUTDIR",
		Short: "Submit a striping job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.Input == "" {
				return usagef("--input is required")
			}
			p, err := f.params(cmd, a)
			if err != nil {
				return err
			}
			var res types.StripeResult
			done, err := a.start(cmd, sf, workflow.StripeWorkflow, p, &res)
			if err != nil || !done {
				return err
			}
			a.console.StripeSummary(res.StripeCount, res.Workers, res.StripeSize, res.Bytes)
			return nil
		},
	}
	f.register(cmd)
	sf.register(cmd)
	return cmd
}

func newSubmitAssembleCmd(a *app) *cobra.Command {
	var f assembleFlags
	var sf submitFlags
	var scratch string
	cmd := &cobra.Command{
		Use:   "assemble -i DIR -o OUT | assemble -o OUT FILE...",
		Short: "Submit an assembly job",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params(cmd, a, args, "")
			if err != nil {
				return err
			}
			if p.OutputURI == "" {
				return usagef("--output is required")
			}
			p.ScratchSubdir = scratch
			var res types.AssembleResult
			done, err := a.start(cmd, sf, workflow.AssembleWorkflow, p, &res)
			if err != nil || !done {
				return err
			}
			a.console.AssembleSummary(res.Output, res.Pieces, res.Bytes)
			return nil
		},
	}
	f.register(cmd)
	sf.register(cmd)
	cmd.Flags().StringVar(&scratch, "scratch-subdir", "", "Resolve a relative --output inside this worker scratch subdir")
	return cmd
}

func newSubmitRestripeCmd(a *app) *cobra.Command {
	var (
		from    assembleFlags
		to      stripeFlags
		sf      submitFlags
		scratch string
		keep    bool
	)
	cmd := &cobra.Command{
		Use:   "restripe -i DIR -o OUTDIR [--size S | --parts P]",
		Short: "Reassemble existing stripes on a worker and stripe them again with a new layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ap, err := from.params(cmd, a, args, "from-")
			if err != nil {
				return err
			}
			sp, err := to.params(cmd, a)
			if err != nil {
				return err
			}
			p := types.RestripeParams{Assemble: ap, Stripe: sp, ScratchSubdir: scratch, KeepScratch: keep}
			var res types.RestripeResult
			done, err := a.start(cmd, sf, workflow.RestripeWorkflow, p, &res)
			if err != nil || !done {
				return err
			}
			a.console.AssembleSummary(res.Assembled.Output, res.Assembled.Pieces, res.Assembled.Bytes)
			a.console.StripeSummary(res.Striped.StripeCount, res.Striped.Workers, res.Striped.StripeSize, res.Striped.Bytes)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringArrayVarP(&from.Inputs, "input", "i", nil, "Existing stripe directory, or stripe files in order (repeatable)")
	fl.BoolVar(&from.List, "list", false, "Treat a single input as a file rather than a directory")
	from.registerFilter(fl.StringVarP, fl.BoolVar, "from-")
	to.registerLayout(cmd)
	sf.register(cmd)
	fl.StringVar(&scratch, "scratch-subdir", "", "Worker scratch subdir for the intermediate file (default derived from the run ID)")
	fl.BoolVar(&keep, "keep-scratch", false, "Leave the scratch subdir in place afterwards")
	return cmd
}
