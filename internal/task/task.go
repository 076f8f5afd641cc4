// Package task turns validated job parameters into one of four runnable variants:
// StripeBySize, StripeByParts, AssembleFromDir and AssembleFromList.
package task

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/assemble"
	"github.com/yourorg/zebra/internal/errs"
	"github.com/yourorg/zebra/internal/iopkg"
	"github.com/yourorg/zebra/internal/stripe"
	"github.com/yourorg/zebra/internal/types"
)

// Reporter receives per-file progress from both striping and assembly.
type Reporter interface {
	stripe.Observer
	assemble.Observer
}

// Env carries the collaborators a task runs with. Zero values are valid.
type Env struct {
	Logger   *zap.Logger
	Progress Reporter
}

func (e Env) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e Env) stripeObserver() stripe.Observer {
	if e.Progress == nil {
		return nil
	}
	return e.Progress
}

func (e Env) pieceObserver() assemble.Observer {
	if e.Progress == nil {
		return nil
	}
	return e.Progress
}

// Outcome holds the result of whichever operation ran; the other field is zero.
type Outcome struct {
	Stripe   types.StripeResult
	Assemble types.AssembleResult
}

// Task is a validated, runnable job. Validate checks only the inputs that need no filesystem access;
// Execute performs every remaining precondition before writing anything.
type Task interface {
	Validate() error
	Execute(ctx context.Context, env Env) (Outcome, error)
}

// Layout is the striping side common to both sizing modes.
type Layout struct {
	Source  string
	OutDir  string
	Namer   stripe.Namer
	Threads int
}

func (l Layout) run(ctx context.Context, env Env, sizer stripe.Sizer) (Outcome, error) {
	res, err := stripe.Stripe(ctx, stripe.Options{
		Source:   l.Source,
		OutDir:   l.OutDir,
		Sizer:    sizer,
		Namer:    l.Namer,
		Workers:  l.Threads,
		Observer: env.stripeObserver(),
		Logger:   env.log(),
	})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Stripe: types.StripeResult{
		StripeSize:  res.Plan.StripeSize,
		StripeCount: res.Plan.StripeCount,
		Workers:     res.Workers,
		Bytes:       res.Bytes,
	}}, nil
}

// StripeBySize stripes with a fixed stripe size.
type StripeBySize struct {
	Layout
	Size int64
}

func (t StripeBySize) Validate() error {
	if err := stripe.CheckWorkers(t.Threads); err != nil {
		return err
	}
	return stripe.CheckSize(t.Size)
}

func (t StripeBySize) Execute(ctx context.Context, env Env) (Outcome, error) {
	if err := t.Validate(); err != nil {
		return Outcome{}, err
	}
	return t.run(ctx, env, stripe.FixedSize(t.Size))
}

// StripeByParts stripes into a target number of parts; the size is derived from the source length.
type StripeByParts struct {
	Layout
	Parts int
}

func (t StripeByParts) Validate() error {
	if err := stripe.CheckWorkers(t.Threads); err != nil {
		return err
	}
	if t.Parts < 1 {
		return fmt.Errorf("%w: %d", errs.ErrBadParts, t.Parts)
	}
	return nil
}

func (t StripeByParts) Execute(ctx context.Context, env Env) (Outcome, error) {
	if err := t.Validate(); err != nil {
		return Outcome{}, err
	}
	return t.run(ctx, env, stripe.Parts(t.Parts))
}

// AssembleFromDir concatenates the matching files of Dir in name order.
type AssembleFromDir struct {
	Dir    string
	Output string
	Filter assemble.Filter
}

func (t AssembleFromDir) Validate() error { return nil }

func (t AssembleFromDir) Execute(ctx context.Context, env Env) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	a := &assemble.Assembler{Observer: env.pieceObserver(), Logger: env.log()}
	res, err := a.FromDir(t.Dir, t.Output, t.Filter)
	if err != nil {
		return Outcome{}, err
	}
	return assembled(res), nil
}

// AssembleFromList concatenates Inputs in the order given.
type AssembleFromList struct {
	Inputs []string
	Output string
}

func (t AssembleFromList) Validate() error {
	if len(t.Inputs) == 0 {
		return errs.ErrNoPieces
	}
	return nil
}

func (t AssembleFromList) Execute(ctx context.Context, env Env) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	a := &assemble.Assembler{Observer: env.pieceObserver(), Logger: env.log()}
	res, err := a.FromList(t.Inputs, t.Output)
	if err != nil {
		return Outcome{}, err
	}
	return assembled(res), nil
}

func assembled(res assemble.Result) Outcome {
	return Outcome{Assemble: types.AssembleResult{Output: res.Output, Pieces: res.Pieces, Bytes: res.Bytes}}
}

// ForStripe picks StripeByParts when Parts is set, StripeBySize otherwise, and parses the sizing text.
func ForStripe(p types.StripeParams) (Task, error) {
	src, err := iopkg.Path(p.SourceURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrInvalidFile, p.SourceURI, err)
	}
	l := Layout{
		Source:  src,
		OutDir:  p.OutputDir,
		Namer:   stripe.Namer{Prefix: p.Prefix, Extension: p.Extension, Padded: !p.NoPadding},
		Threads: p.Threads,
	}
	switch {
	case p.Size != "" && p.Parts != "":
		return nil, fmt.Errorf("%w: size and parts are mutually exclusive", errs.ErrBadSize)
	case p.Parts != "":
		n, err := stripe.ParseParts(p.Parts)
		if err != nil {
			return nil, err
		}
		return StripeByParts{Layout: l, Parts: n}, nil
	case p.Size != "":
		n, err := stripe.ParseSize(p.Size)
		if err != nil {
			return nil, err
		}
		return StripeBySize{Layout: l, Size: n}, nil
	default:
		return StripeBySize{Layout: l, Size: stripe.DefaultStripeSize}, nil
	}
}

// ForAssemble picks AssembleFromList when Inputs is non-empty, AssembleFromDir otherwise.
func ForAssemble(p types.AssembleParams) (Task, error) {
	out, err := iopkg.Path(p.OutputURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrOpenFailed, p.OutputURI, err)
	}
	if len(p.Inputs) > 0 {
		inputs := make([]string, len(p.Inputs))
		for i, in := range p.Inputs {
			if inputs[i], err = iopkg.Path(in); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", errs.ErrOpenFailed, in, err)
			}
		}
		return AssembleFromList{Inputs: inputs, Output: out}, nil
	}
	dir, err := iopkg.Path(p.InputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrNotADirectory, p.InputDir, err)
	}
	return AssembleFromDir{
		Dir:    dir,
		Output: out,
		Filter: assemble.Filter{
			Extension:   p.Extension,
			NoExtension: p.NoExtension,
			Name:        p.Name,
			NoName:      p.NoName,
		},
	}, nil
}
