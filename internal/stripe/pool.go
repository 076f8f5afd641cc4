package stripe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourorg/zebra/internal/errs"
	"github.com/yourorg/zebra/internal/iopkg"
	znmetrics "github.com/yourorg/zebra/internal/metrics"
)

// Observer is told about every stripe file once it is fully written.
// Run calls it from several goroutines at once.
type Observer interface {
	StripeWritten(path string, n int64)
}

// Job is one striping run over a planned source file.
type Job struct {
	Source   string
	OutDir   string
	Plan     Plan
	Namer    Namer
	Observer Observer
	Logger   *zap.Logger
}

// Run writes every stripe in ranges, one goroutine per range, each with its own read handle seeked to the
// range offset. It returns the total bytes written, or the first failure recorded by any worker.
// Stripes already written are left in place on failure.
func (j *Job) Run(ctx context.Context, ranges []WorkRange) (int64, error) {
	log := j.Logger
	if log == nil {
		log = zap.NewNop()
	}

	handles := make([]*os.File, 0, len(ranges))
	defer func() {
		for _, f := range handles {
			_ = f.Close()
		}
	}()
	for _, r := range ranges {
		f, err := os.Open(j.Source)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", errs.ErrInvalidFile, j.Source)
		}
		handles = append(handles, f)
		if _, err := f.Seek(r.Offset, io.SeekStart); err != nil {
			return 0, fmt.Errorf("%w: %s: seek %d", errs.ErrInvalidFile, j.Source, r.Offset)
		}
	}

	var fail failure
	var g errgroup.Group
	sums := make([]int64, len(ranges))
	for i, r := range ranges {
		i, r := i, r
		src := handles[i]
		g.Go(func() error {
			n, err := j.work(ctx, src, r, &fail, log)
			sums[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		// errgroup reports whichever worker returned first; the caller gets the one that set the flag.
		return 0, fail.get()
	}

	var total int64
	for _, n := range sums {
		total += n
	}
	return total, nil
}

func (j *Job) work(ctx context.Context, src io.Reader, r WorkRange, fail *failure, log *zap.Logger) (int64, error) {
	c := iopkg.NewCopier()
	var total int64
	for idx := r.Start; idx < r.End && !fail.failed(); idx++ {
		if err := ctx.Err(); err != nil {
			return total, j.record(fail, err, log)
		}
		path := filepath.Join(j.OutDir, j.Namer.Name(idx, j.Plan.NameWidth))
		out, err := iopkg.Create(path)
		if err != nil {
			return total, j.record(fail, fmt.Errorf("%w: %s", errs.ErrWriteFailed, path), log)
		}
		n, err := c.CopyN(out, src, j.Plan.StripeSize)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		total += n
		if err != nil {
			return total, j.record(fail, fmt.Errorf("%w: %s: %v", errs.ErrWriteFailed, path, err), log)
		}

		znmetrics.StripesWritten.Inc()
		znmetrics.StripeBytes.Add(float64(n))
		log.Debug("stripe written", zap.Int("index", idx), zap.String("path", path), zap.Int64("bytes", n))
		if j.Observer != nil {
			j.Observer.StripeWritten(path, n)
		}
		if n < j.Plan.StripeSize {
			break
		}
	}
	return total, nil
}

func (j *Job) record(fail *failure, err error, log *zap.Logger) error {
	if !fail.set(err) {
		log.Debug("suppressed stripe failure", zap.Error(err))
	}
	return err
}
