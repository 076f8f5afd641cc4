package activities

import (
	"context"
	"path/filepath"

	"go.temporal.io/sdk/activity"
	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/task"
	"github.com/yourorg/zebra/internal/types"
)

// Stripe splits p.SourceURI into stripe files under p.OutputDir. A relative OutputDir is resolved against
// the scratch root and created if missing; an absolute one must already exist.
func (a *Activities) Stripe(ctx context.Context, p types.StripeParams) (types.StripeResult, error) {
	if p.OutputDir != "" && !filepath.IsAbs(p.OutputDir) {
		dir, err := a.scratch(p.OutputDir)
		if err != nil {
			return types.StripeResult{}, nonRetryable(err)
		}
		if err := mkdirScratch(dir); err != nil {
			return types.StripeResult{}, nonRetryable(err)
		}
		p.OutputDir = dir
	}
	activity.GetLogger(ctx).Info("Stripe started", "source", p.SourceURI, "out", p.OutputDir, "threads", p.Threads)

	t, err := task.ForStripe(p)
	if err != nil {
		return types.StripeResult{}, nonRetryable(err)
	}
	if err := t.Validate(); err != nil {
		return types.StripeResult{}, nonRetryable(err)
	}
	out, err := t.Execute(ctx, task.Env{
		Logger:   a.cfg.Logger.With(zap.String("activity", "Stripe")),
		Progress: &heartbeat{ctx: ctx},
	})
	if err != nil {
		return types.StripeResult{}, nonRetryable(err)
	}
	activity.GetLogger(ctx).Info("Stripe completed", "stripes", out.Stripe.StripeCount, "bytes", out.Stripe.Bytes)
	return out.Stripe, nil
}
