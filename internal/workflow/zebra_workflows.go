package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yourorg/zebra/internal/types"
)

// RestripeInput is the name of the intermediate file RestripeWorkflow assembles inside its scratch subdir.
const RestripeInput = "restripe.input"

// Every failure is terminal, so activities run exactly once.
func withActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 4 * time.Hour,
		HeartbeatTimeout:    5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})
}

func StripeWorkflow(ctx workflow.Context, p types.StripeParams) (types.StripeResult, error) {
	ctx = withActivityOptions(ctx)
	var res types.StripeResult
	if err := workflow.ExecuteActivity(ctx, "Activities.Stripe", p).Get(ctx, &res); err != nil {
		return types.StripeResult{}, err
	}
	return res, nil
}

func AssembleWorkflow(ctx workflow.Context, p types.AssembleParams) (types.AssembleResult, error) {
	ctx = withActivityOptions(ctx)
	var res types.AssembleResult
	if err := workflow.ExecuteActivity(ctx, "Activities.Assemble", p).Get(ctx, &res); err != nil {
		return types.AssembleResult{}, err
	}
	return res, nil
}

// RestripeWorkflow reassembles p.Assemble into scratch and stripes the result with p.Stripe's layout.
// p.Assemble.OutputURI and p.Stripe.SourceURI are ignored. The scratch subdir is removed afterwards,
// on failure too, unless KeepScratch is set.
func RestripeWorkflow(ctx workflow.Context, p types.RestripeParams) (types.RestripeResult, error) {
	ctx = withActivityOptions(ctx)
	logger := workflow.GetLogger(ctx)

	sub := p.ScratchSubdir
	if sub == "" {
		sub = "restripe-" + workflow.GetInfo(ctx).WorkflowExecution.RunID
	}
	if !p.KeepScratch {
		defer func() {
			// Disconnected so cleanup still runs when the workflow is cancelled.
			cctx, _ := workflow.NewDisconnectedContext(ctx)
			cerr := workflow.ExecuteActivity(cctx, "Activities.CleanupScratch", types.CleanupParams{ScratchSubdir: sub}).Get(cctx, nil)
			if cerr != nil {
				logger.Warn("scratch cleanup failed", "subdir", sub, "error", cerr)
			}
		}()
	}

	var res types.RestripeResult
	ap := p.Assemble
	ap.ScratchSubdir = sub
	ap.OutputURI = RestripeInput
	if err := workflow.ExecuteActivity(ctx, "Activities.Assemble", ap).Get(ctx, &res.Assembled); err != nil {
		return types.RestripeResult{}, err
	}

	sp := p.Stripe
	sp.SourceURI = res.Assembled.Output
	if err := workflow.ExecuteActivity(ctx, "Activities.Stripe", sp).Get(ctx, &res.Striped); err != nil {
		return types.RestripeResult{}, err
	}
	logger.Info("restripe done", "pieces", res.Assembled.Pieces, "stripes", res.Striped.StripeCount)
	return res, nil
}
