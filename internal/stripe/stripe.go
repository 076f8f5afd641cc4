package stripe

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/errs"
	znmetrics "github.com/yourorg/zebra/internal/metrics"
)

// Options configures a striping operation.
type Options struct {
	Source  string
	OutDir  string
	Sizer   Sizer
	Namer   Namer
	Workers int

	Observer Observer
	Logger   *zap.Logger
}

// Result summarises a completed striping operation.
type Result struct {
	Plan    Plan
	Workers int
	Bytes   int64
}

// Stripe checks preconditions, plans the layout and writes every stripe of opts.Source into opts.OutDir.
// Nothing is created in OutDir until all configuration and path checks have passed.
func Stripe(ctx context.Context, opts Options) (Result, error) {
	res, err := stripe(ctx, opts)
	if err != nil {
		znmetrics.Failures.WithLabelValues("stripe").Inc()
	}
	return res, err
}

func stripe(ctx context.Context, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := CheckWorkers(opts.Workers); err != nil {
		return Result{}, err
	}
	if opts.Sizer == nil {
		opts.Sizer = FixedSize(DefaultStripeSize)
	}

	st, err := os.Stat(opts.Source)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", errs.ErrInvalidFile, opts.Source)
	}
	if st.IsDir() {
		return Result{}, fmt.Errorf("%w: cannot run on a directory: %s", errs.ErrInvalidFile, opts.Source)
	}
	if dst, err := os.Stat(opts.OutDir); err != nil || !dst.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", errs.ErrBadOutputDirectory, opts.OutDir)
	}

	plan, err := NewPlan(st.Size(), opts.Sizer.StripeSize(st.Size()))
	if err != nil {
		return Result{}, err
	}
	ranges := plan.Split(opts.Workers)
	log.Info("striping",
		zap.String("source", opts.Source),
		zap.String("out", opts.OutDir),
		zap.Int64("size", plan.FileSize),
		zap.Int64("stripe_size", plan.StripeSize),
		zap.Int("stripes", plan.StripeCount),
		zap.Int("workers", len(ranges)),
	)

	job := &Job{
		Source:   opts.Source,
		OutDir:   opts.OutDir,
		Plan:     plan,
		Namer:    opts.Namer,
		Observer: opts.Observer,
		Logger:   log,
	}
	n, err := job.Run(ctx, ranges)
	if err != nil {
		log.Debug("striping failed", zap.Error(err))
		return Result{}, err
	}
	if n != plan.FileSize {
		return Result{}, fmt.Errorf("%w: wrote %d of %d bytes from %s", errs.ErrWriteFailed, n, plan.FileSize, opts.Source)
	}
	log.Info("striping done", zap.Int64("bytes", n))
	return Result{Plan: plan, Workers: len(ranges), Bytes: n}, nil
}
