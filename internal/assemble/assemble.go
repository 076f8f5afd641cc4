package assemble

import (
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/errs"
	"github.com/yourorg/zebra/internal/iopkg"
	znmetrics "github.com/yourorg/zebra/internal/metrics"
)

// Observer is told about every input once its content has been appended.
type Observer interface {
	PieceAppended(path string, n int64)
}

// Result summarises an assembly.
type Result struct {
	Output string
	Pieces int
	Bytes  int64
}

// Assembler concatenates pieces into one output file, strictly in the order given.
type Assembler struct {
	Observer Observer
	Logger   *zap.Logger
}

func (a *Assembler) log() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Concat creates out and appends every path to it in order. If an input cannot be opened the partial
// output is left on disk and the error tells the caller to discard it.
func (a *Assembler) Concat(paths []string, out string) (int64, error) {
	dst, err := iopkg.Create(out)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrOpenFailed, out)
	}
	defer dst.Close()

	c := iopkg.NewCopier()
	var total int64
	for _, p := range paths {
		n, err := a.appendFile(c, dst, p)
		total += n
		if err != nil {
			return total, err
		}
		znmetrics.PiecesAssembled.Inc()
		a.log().Debug("piece appended", zap.String("path", p), zap.Int64("bytes", n))
		if a.Observer != nil {
			a.Observer.PieceAppended(p, n)
		}
	}
	if err := dst.Close(); err != nil {
		return total, fmt.Errorf("%w: %s: %v", errs.ErrWriteFailed, out, err)
	}
	znmetrics.AssembledBytes.Add(float64(total))
	return total, nil
}

func (a *Assembler) appendFile(c *iopkg.Copier, dst io.Writer, path string) (int64, error) {
	src, _, err := iopkg.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s\ndiscard output", errs.ErrOpenFailed, path)
	}
	defer src.Close()
	n, err := c.CopyAll(dst, src)
	if err != nil {
		return n, fmt.Errorf("%w: %s: %v\ndiscard output", errs.ErrWriteFailed, path, err)
	}
	return n, nil
}

// FromDir assembles every file in dir accepted by f, in sorted name order. The output file itself is
// never treated as an input, so re-running into the same directory is stable.
func (a *Assembler) FromDir(dir, out string, f Filter) (Result, error) {
	paths, err := Collect(dir, f)
	if err != nil {
		return a.fail(err)
	}
	paths = without(paths, out)
	if len(paths) == 0 {
		return a.fail(fmt.Errorf("%w: %s", errs.ErrNoPieces, dir))
	}
	return a.run(paths, out)
}

// FromList assembles paths in exactly the order given.
func (a *Assembler) FromList(paths []string, out string) (Result, error) {
	if len(paths) == 0 {
		return a.fail(errs.ErrNoPieces)
	}
	return a.run(paths, out)
}

func (a *Assembler) run(paths []string, out string) (Result, error) {
	a.log().Info("assembling", zap.String("out", out), zap.Int("pieces", len(paths)))
	n, err := a.Concat(paths, out)
	if err != nil {
		a.log().Debug("assembly failed", zap.Error(err))
		return a.fail(err)
	}
	return Result{Output: out, Pieces: len(paths), Bytes: n}, nil
}

func (a *Assembler) fail(err error) (Result, error) {
	znmetrics.Failures.WithLabelValues("assemble").Inc()
	return Result{}, err
}

func without(paths []string, out string) []string {
	abs, err := filepath.Abs(out)
	if err != nil {
		return paths
	}
	kept := paths[:0]
	for _, p := range paths {
		if pa, err := filepath.Abs(p); err == nil && pa == abs {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
