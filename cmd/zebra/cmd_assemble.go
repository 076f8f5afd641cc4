package main

import (
	"github.com/spf13/cobra"

	"github.com/yourorg/zebra/internal/task"
	"github.com/yourorg/zebra/internal/types"
)

type assembleFlags struct {
	Inputs      []string
	Output      string
	List        bool
	Name        string
	NoName      bool
	Extension   string
	NoExtension bool
}

func (f *assembleFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.Inputs, "input", "i", nil, "Stripe directory, or stripe files in order (repeatable)")
	fl.StringVarP(&f.Output, "output", "o", "", "Output file")
	fl.BoolVar(&f.List, "list", false, "Treat a single input as a file rather than a directory")
	f.registerFilter(fl.StringVarP, fl.BoolVar, "")
}

// registerFilter adds the directory-scan filter flags; prefix namespaces them for commands that also stripe.
func (f *assembleFlags) registerFilter(
	strVar func(p *string, name, shorthand, value, usage string),
	boolVar func(p *bool, name string, value bool, usage string),
	prefix string,
) {
	short := func(s string) string {
		if prefix != "" {
			return ""
		}
		return s
	}
	strVar(&f.Name, prefix+"name", short("n"), "", "Only assemble stripes with this name prefix")
	boolVar(&f.NoName, prefix+"no-name", false, "Only assemble stripes without a name prefix")
	strVar(&f.Extension, prefix+"extension", short("e"), "", "Stripe extension to match (default from config, stripe)")
	boolVar(&f.NoExtension, prefix+"no-extension", false, "Only assemble stripes without an extension")
}

// params picks list mode when more than one input is given or --list is set, directory mode otherwise.
func (f *assembleFlags) params(cmd *cobra.Command, a *app, args []string, prefix string) (types.AssembleParams, error) {
	fl := cmd.Flags()
	if fl.Changed(prefix+"extension") && f.NoExtension {
		return types.AssembleParams{}, usagef("--%sextension and --%sno-extension are mutually exclusive", prefix, prefix)
	}
	inputs := append(append([]string(nil), f.Inputs...), args...)
	if len(inputs) == 0 {
		return types.AssembleParams{}, usagef("no input given")
	}
	ext := f.Extension
	if !fl.Changed(prefix + "extension") {
		ext = a.cfg.Extension
	}
	if f.NoExtension {
		ext = ""
	}
	p := types.AssembleParams{
		OutputURI:   f.Output,
		Extension:   ext,
		NoExtension: f.NoExtension,
		Name:        f.Name,
		NoName:      f.NoName,
	}
	if f.List || len(inputs) > 1 {
		p.Inputs = inputs
	} else {
		p.InputDir = inputs[0]
	}
	return p, nil
}

func newAssembleCmd(a *app) *cobra.Command {
	var f assembleFlags
	cmd := &cobra.Command{
		Use:   "assemble -i DIR -o OUT | assemble -o OUT FILE...",
		Short: "Concatenate stripes back into one file",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.params(cmd, a, args, "")
			if err != nil {
				return err
			}
			if p.OutputURI == "" {
				return usagef("--output is required")
			}
			t, err := task.ForAssemble(p)
			if err != nil {
				return err
			}
			if err := t.Validate(); err != nil {
				return err
			}
			a.console.Banner("Assembling")
			out, err := t.Execute(cmd.Context(), task.Env{Logger: a.log, Progress: a.console})
			if err != nil {
				return err
			}
			a.console.AssembleSummary(out.Assemble.Output, out.Assemble.Pieces, out.Assemble.Bytes)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
