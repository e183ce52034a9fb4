package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/pype/lang"
	"github.com/ardnew/pype/log"
	"github.com/ardnew/pype/pkg"
	"github.com/ardnew/pype/symbols"
)

// CLI is the top-level command-line interface for pype.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	ShowError bool `help:"Print failed evaluations. Default is to skip them."                   name:"show-error" short:"e"`
	ShowBool  bool `help:"Print boolean results. Default is to use them as a filter."          name:"show-bool"  short:"b"`
	ShowNone  bool `help:"Print nil results. Default is to pass the input value through."      name:"show-none"  short:"n"`

	Args []string `help:"Seed the pipeline with these values instead of standard input." name:"arg" placeholder:"VALUE" short:"a"`

	Version kong.VersionFlag `help:"Print version information and quit."`

	Expr []string `arg:"" help:"Expression(s) to apply, in order, to all inputs." name:"expr"`
}

// Run executes the pype CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon
// completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	vars := kong.Vars{
		"version": pkg.Name + " " + pkg.Version(),
	}.CloneWith(cli.Pprof.vars())

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		vars,
	)
	if err != nil {
		return err
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	failed, err := cli.run(ctx, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}

	if failed {
		exit(1)
	}

	return nil
}

// run seeds the pipeline, applies the expression chain, and renders to
// stdout. It reports whether any evaluation failed terminally.
func (c *CLI) run(
	ctx context.Context,
	stdin *os.File,
	stdout io.Writer,
) (bool, error) {
	table, err := symbols.Load(pkg.Name)
	if err != nil {
		return false, err
	}

	initial, err := c.seed(stdin)
	if err != nil {
		return false, err
	}

	env := lang.NewEnvironment(lang.NewRegistry(), table)

	pipe := lang.NewPipeline(
		lang.NewEvaluator(env),
		initial,
		lang.Policy{
			ShowErrors: c.ShowError,
			ShowBool:   c.ShowBool,
			ShowNone:   c.ShowNone,
		},
	)

	return pipe.Run(ctx, c.Expr, stdout)
}

// seed chooses the initial cardinality state: positional values produce a
// Single collection, an interactive terminal produces Empty, and a piped
// stream is consumed eagerly into Many.
func (c *CLI) seed(stdin *os.File) (lang.State, error) {
	if len(c.Args) > 0 {
		return lang.FromArgs(c.Args), nil
	}

	fd := stdin.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		log.Debug("interactive input, starting empty")

		return lang.EmptyState(), nil
	}

	lines, err := lang.ReadLines(stdin)
	if err != nil {
		return nil, err
	}

	log.Debug("input consumed", slog.Int("lines", len(lines)))

	return lang.ManyOf(lines), nil
}
