// Package progress prints human-readable striping and assembly progress.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Options configures a Console.
type Options struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	// Quiet suppresses everything the console would print.
	Quiet bool
	// NoColor disables the coloured arrow.
	NoColor bool
}

// Console serialises progress lines from concurrent workers behind one lock so lines never interleave.
type Console struct {
	opts  Options
	arrow string

	mu sync.Mutex
}

// NewConsole returns a Console writing to opts.Output.
func NewConsole(opts Options) *Console {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	green := color.New(color.FgGreen)
	if opts.NoColor {
		green.DisableColor()
	} else {
		green.EnableColor()
	}
	return &Console{opts: opts, arrow: green.Sprint("->")}
}

func (c *Console) line(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.opts.Output, format+"\n", args...)
}

// Banner prints the mode line, e.g. "[zebra] Striping".
func (c *Console) Banner(mode string) {
	if c.opts.Quiet {
		return
	}
	c.line("[zebra] %s", mode)
}

// StripeWritten prints one line per completed stripe file.
func (c *Console) StripeWritten(path string, n int64) {
	if c.opts.Quiet {
		return
	}
	c.line("%s %s %d bytes", c.arrow, path, n)
}

// PieceAppended prints one line per input appended to an assembly.
func (c *Console) PieceAppended(path string, n int64) {
	if c.opts.Quiet {
		return
	}
	c.line("%s %s %d bytes", c.arrow, path, n)
}

// StripeSummary prints the totals of a striping run.
func (c *Console) StripeSummary(stripes, workers int, stripeSize, total int64) {
	if c.opts.Quiet {
		return
	}
	c.line("[zebra] Wrote %d stripes of %s with %d workers (%s total)",
		stripes, humanize.Bytes(uint64(stripeSize)), workers, humanize.Bytes(uint64(total)))
}

// AssembleSummary prints the totals of an assembly.
func (c *Console) AssembleSummary(out string, pieces int, total int64) {
	if c.opts.Quiet {
		return
	}
	c.line("Wrote %s %d bytes", out, total)
	c.line("[zebra] %d pieces, %s", pieces, humanize.Bytes(uint64(total)))
}
