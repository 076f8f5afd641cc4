package activities

import (
	"context"
	"path/filepath"

	"go.temporal.io/sdk/activity"
	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/iopkg"
	"github.com/yourorg/zebra/internal/task"
	"github.com/yourorg/zebra/internal/types"
)

// Assemble concatenates stripes into p.OutputURI. With a ScratchSubdir, a relative output is written
// inside <scratch>/<subdir>/, which is created on demand.
func (a *Activities) Assemble(ctx context.Context, p types.AssembleParams) (types.AssembleResult, error) {
	if p.ScratchSubdir != "" {
		dir, err := a.scratch(p.ScratchSubdir)
		if err != nil {
			return types.AssembleResult{}, nonRetryable(err)
		}
		if err := mkdirScratch(dir); err != nil {
			return types.AssembleResult{}, nonRetryable(err)
		}
		if out, err := iopkg.Path(p.OutputURI); err == nil && !filepath.IsAbs(out) {
			p.OutputURI = filepath.Join(dir, out)
		}
	}
	activity.GetLogger(ctx).Info("Assemble started", "dir", p.InputDir, "inputs", len(p.Inputs), "out", p.OutputURI)

	t, err := task.ForAssemble(p)
	if err != nil {
		return types.AssembleResult{}, nonRetryable(err)
	}
	if err := t.Validate(); err != nil {
		return types.AssembleResult{}, nonRetryable(err)
	}
	out, err := t.Execute(ctx, task.Env{
		Logger:   a.cfg.Logger.With(zap.String("activity", "Assemble")),
		Progress: &heartbeat{ctx: ctx},
	})
	if err != nil {
		return types.AssembleResult{}, nonRetryable(err)
	}
	activity.GetLogger(ctx).Info("Assemble completed", "pieces", out.Assemble.Pieces, "bytes", out.Assemble.Bytes)
	return out.Assemble, nil
}
