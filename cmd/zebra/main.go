package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/yourorg/zebra/internal/config"
	"github.com/yourorg/zebra/internal/errs"
	"github.com/yourorg/zebra/internal/logging"
	"github.com/yourorg/zebra/internal/progress"
)

// Exit codes.
const (
	ExitSuccess  = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitPath     = 3
	ExitIO       = 4
	ExitNoPieces = 5
)

// usageError marks bad invocations that never reached the engine.
type usageError struct{ error }

func (e usageError) Unwrap() error { return e.error }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

type app struct {
	out, errOut io.Writer

	flags struct {
		Config   string
		Quiet    bool
		LogLevel string
		NoColor  bool
	}

	cfg     config.Config
	log     *zap.Logger
	console *progress.Console
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zebra",
		Short:         "Split files into stripes and put them back together",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.Config, "config", "", "YAML config file")
	pf.BoolVarP(&a.flags.Quiet, "quiet", "q", false, "Suppress all progress and summary output")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config, warn)")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(newStripeCmd(a), newAssembleCmd(a), newSubmitCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.Config)
	if err != nil {
		return usageError{err}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if a.flags.Quiet {
		cfg.Quiet = true
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel)
	a.console = progress.NewConsole(progress.Options{Output: a.out, Quiet: cfg.Quiet, NoColor: a.flags.NoColor})
	return nil
}

// exitCode maps an error to the process exit status by its kind. Errors returned by Temporal workflows
// carry the kind name as their application error type.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	kind := errs.KindOf(err)
	var appErr *temporal.ApplicationError
	if kind == errs.KindUnknown && errors.As(err, &appErr) {
		kind = errs.ParseKind(appErr.Type())
	}
	switch kind {
	case errs.KindConfig:
		return ExitUsage
	case errs.KindPath:
		return ExitPath
	case errs.KindIO:
		return ExitIO
	case errs.KindNoPieces:
		return ExitNoPieces
	default:
		return ExitFailure
	}
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", sentences(err.Error()))
	}
	return exitCode(err)
}

// sentences capitalises the first letter of every line of a multi-line error message.
func sentences(msg string) string {
	lines := strings.Split(msg, "\n")
	for i, l := range lines {
		r, n := utf8.DecodeRuneInString(l)
		if n > 0 && unicode.IsLower(r) {
			lines[i] = string(unicode.ToUpper(r)) + l[n:]
		}
	}
	return strings.Join(lines, "\n")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
