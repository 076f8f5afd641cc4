package main

import (
	"github.com/spf13/cobra"

	"github.com/yourorg/zebra/internal/task"
	"github.com/yourorg/zebra/internal/types"
)

type stripeFlags struct {
	Input       string
	Output      string
	Size        string
	Parts       string
	Threads     int
	Name        string
	Extension   string
	NoExtension bool
	NoPadding   bool
}

func (f *stripeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Input, "input", "i", "", "Source file")
	f.registerLayout(cmd)
}

// registerLayout adds every striping flag except the source.
func (f *stripeFlags) registerLayout(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.Output, "output", "o", "", "Existing directory to write stripes into")
	fl.StringVarP(&f.Size, "size", "s", "", "Stripe size, e.g. 30mb, 55.35mb, 100000 (default 3mb)")
	fl.StringVarP(&f.Parts, "parts", "p", "", "Number of stripes to produce")
	fl.IntVarP(&f.Threads, "threads", "t", 0, "Worker count (default from config, 1)")
	fl.StringVarP(&f.Name, "name", "n", "", "Stripe name prefix")
	fl.StringVarP(&f.Extension, "extension", "e", "", "Stripe extension (default from config, stripe)")
	fl.BoolVar(&f.NoExtension, "no-extension", false, "Write stripes without an extension")
	fl.BoolVar(&f.NoPadding, "no-padding", false, "Do not zero-pad stripe indices")
}

// params checks the flag combination and fills unset values from config.
func (f *stripeFlags) params(cmd *cobra.Command, a *app) (types.StripeParams, error) {
	fl := cmd.Flags()
	if fl.Changed("size") && fl.Changed("parts") {
		return types.StripeParams{}, usagef("--size and --parts are mutually exclusive")
	}
	if fl.Changed("extension") && f.NoExtension {
		return types.StripeParams{}, usagef("--extension and --no-extension are mutually exclusive")
	}
	if f.Output == "" {
		return types.StripeParams{}, usagef("--output is required")
	}
	threads := f.Threads
	if !fl.Changed("threads") {
		threads = a.cfg.Threads
	}
	ext := f.Extension
	if !fl.Changed("extension") {
		ext = a.cfg.Extension
	}
	if f.NoExtension {
		ext = ""
	}
	return types.StripeParams{
		SourceURI: f.Input,
		OutputDir: f.Output,
		Size:      f.Size,
		Parts:     f.Parts,
		Threads:   threads,
		Prefix:    f.Name,
		Extension: ext,
		NoPadding: f.NoPadding,
	}, nil
}

func newStripeCmd(a *app) *cobra.Command {
	var f stripeFlags
	cmd := &cobra.Command{
		Use:   "stripe -i SOURCE -o OUTDIR",
		Short: "Split a file into numbered stripes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.Input == "" {
				return usagef("--input is required")
			}
			p, err := f.params(cmd, a)
			if err != nil {
				return err
			}
			t, err := task.ForStripe(p)
			if err != nil {
				return err
			}
			if err := t.Validate(); err != nil {
				return err
			}
			a.console.Banner("Striping")
			out, err := t.Execute(cmd.Context(), task.Env{Logger: a.log, Progress: a.console})
			if err != nil {
				return err
			}
			a.console.StripeSummary(out.Stripe.StripeCount, out.Stripe.Workers, out.Stripe.StripeSize, out.Stripe.Bytes)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
