// Command georelate converts geometries between GeoJSON, ArcGIS JSON and WKT
// and evaluates spatial predicates from the command line.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/mohammed-shakir/georelate/internal/codec"
	"github.com/mohammed-shakir/georelate/internal/logger"
	"github.com/mohammed-shakir/georelate/pkg/diag"
)

type globalOptions struct {
	Pretty      bool   `short:"p" long:"pretty" description:"Indent JSON output"`
	IDAttribute string `long:"id-attribute" default:"OBJECTID" description:"ArcGIS attribute holding feature ids"`
	Verbose     bool   `short:"v" long:"verbose" description:"Print geometry diagnostics to stderr"`
}

type app struct {
	opts   globalOptions
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	parser := a.parser()
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		a.setupDiagnostics()
		return cmd.Execute(args)
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				_, _ = fmt.Fprintln(stdout, flagsErr.Message)
				return 0
			}
			_, _ = fmt.Fprintln(stderr, flagsErr.Message)
			return 2
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, codec.ErrBadInput) {
			return 2
		}
		return 1
	}
	return 0
}

func (a *app) parser() *flags.Parser {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "georelate"
	mustAdd(parser, "convert", "Convert a geometry between formats",
		"Reads a geometry in --from and writes it in --to.", &convertCmd{app: a})
	mustAdd(parser, "relate", "Evaluate a spatial predicate",
		"Prints true or false for OP(A, B), where A and B are files ('-' for stdin).", &relateCmd{app: a})
	mustAdd(parser, "hull", "Compute the convex hull",
		"Prints the convex hull polygon of the input, or null when it has fewer than three positions.", &hullCmd{app: a})
	mustAdd(parser, "bounds", "Compute the bounding box and envelope",
		"Prints the [xmin, ymin, xmax, ymax] box and the {x, y, w, h} envelope.", &boundsCmd{app: a})
	return parser
}

func mustAdd(p *flags.Parser, name, short, long string, data any) {
	if _, err := p.AddCommand(name, short, long, data); err != nil {
		panic(err)
	}
}

func (a *app) setupDiagnostics() {
	if !a.opts.Verbose {
		diag.SetLogger(nil)
		return
	}
	zl := logger.Build(logger.Config{Level: "warn", Console: true, Component: "georelate"}, a.stderr)
	diag.SetLogger(&zl)
}

func (a *app) codec() codec.Codec {
	return codec.Codec{IDAttribute: a.opts.IDAttribute}
}
