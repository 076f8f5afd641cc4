package activities

import (
	"context"
	"os"

	"go.temporal.io/sdk/activity"

	"github.com/yourorg/zebra/internal/types"
)

// CleanupScratch removes the workflow's scratch subdirectory under the configured scratch root.
// It is safe to call even if the directory doesn't exist.
func (a *Activities) CleanupScratch(ctx context.Context, p types.CleanupParams) error {
	base, err := a.scratch(p.ScratchSubdir)
	if err != nil {
		return nonRetryable(err)
	}
	activity.GetLogger(ctx).Info("Removing scratch", "dir", base)
	return os.RemoveAll(base)
}
