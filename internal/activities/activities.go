package activities

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/errs"
)

type Config struct {
	ScratchDir string
	Logger     *zap.Logger
}

type Activities struct {
	cfg Config
}

func New(cfg Config) *Activities {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Activities{cfg: cfg}
}

// scratch resolves sub under the scratch root, refusing the root itself and anything that escapes it.
func (a *Activities) scratch(sub string) (string, error) {
	sub = filepath.Clean(sub)
	if sub == "." || sub == "/" || sub == ".." || filepath.IsAbs(sub) ||
		strings.HasPrefix(sub, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: invalid scratch subdir %q", errs.ErrBadOutputDirectory, sub)
	}
	return filepath.Join(a.cfg.ScratchDir, sub), nil
}

// heartbeat reports per-file progress to Temporal. Stripe workers call it concurrently.
type heartbeat struct {
	ctx context.Context

	mu    sync.Mutex
	files int
	bytes int64
}

func (h *heartbeat) StripeWritten(_ string, n int64) { h.record(n) }

func (h *heartbeat) PieceAppended(_ string, n int64) { h.record(n) }

func (h *heartbeat) record(n int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.files++
	h.bytes += n
	activity.RecordHeartbeat(h.ctx, map[string]any{"files": h.files, "bytes": h.bytes})
}

// nonRetryable marks every classified engine failure as terminal so the server never retries it.
// The application error type is the kind name, e.g. "ConfigError".
func nonRetryable(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return err
	}
	if k := errs.KindOf(err); k != errs.KindUnknown {
		return temporal.NewNonRetryableApplicationError(err.Error(), k.String(), err)
	}
	return err
}

func mkdirScratch(dir string) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("%w: %s: %v", errs.ErrBadOutputDirectory, dir, err)
	}
	return nil
}
