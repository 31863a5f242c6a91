// Command mmdgrid renders a Mermaid flowchart into a 2D ASCII/Unicode character-grid diagram,
// per spec.md §6's CLI surface.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/asciigraph/mmdgrid"
	"github.com/asciigraph/mmdgrid/ast"
)

// errFlagParse is a sentinel error indicating flag parsing failed. The flag package already
// printed the error, so main should not print again.
var errFlagParse = errors.New("flag parse error")

func main() {
	code, err := run(os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil && err != errFlagParse {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(code)
}

func run(args []string, r io.Reader, w io.Writer, wErr io.Writer) (int, error) {
	flags := flag.NewFlagSet("mmdgrid", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		_, _ = fmt.Fprintln(wErr, "usage: mmdgrid [flags] [path]")
		_, _ = fmt.Fprintln(wErr, "renders a Mermaid flowchart into an ASCII/Unicode character-grid diagram")
		_, _ = fmt.Fprintln(wErr, "reads from the given path, or standard input if omitted")
		_, _ = fmt.Fprintln(wErr, "flags:")
		flags.PrintDefaults()
	}
	ascii := flags.Bool("a", false, "use the ASCII charset instead of Unicode box-drawing")
	flags.BoolVar(ascii, "ascii", false, "use the ASCII charset instead of Unicode box-drawing")
	direction := flags.String("d", "", "override the source's direction: TD, BT, LR, or RL")
	flags.StringVar(direction, "direction", "", "override the source's direction: TD, BT, LR, or RL")
	padding := flags.Int("p", 1, "horizontal label padding inside each box")
	flags.IntVar(padding, "padding", 1, "horizontal label padding inside each box")
	output := flags.String("o", "", "write output to `path` instead of standard output")
	flags.StringVar(output, "output", "", "write output to `path` instead of standard output")

	if err := flags.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0, nil
		}
		return 2, errFlagParse
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return 2, nil
	}

	var opts []mmdgrid.Option
	if *ascii {
		opts = append(opts, mmdgrid.WithASCII())
	}
	if *padding != 1 {
		opts = append(opts, mmdgrid.WithPadding(*padding))
	}
	if *direction != "" {
		d, err := parseDirection(*direction)
		if err != nil {
			return 2, err
		}
		opts = append(opts, mmdgrid.WithDirection(d))
	}

	var src []byte
	var err error
	if flags.NArg() == 1 {
		src, err = os.ReadFile(flags.Arg(0))
		if err != nil {
			return 2, fmt.Errorf("failed to open file: %v", err)
		}
	} else {
		src, err = io.ReadAll(r)
		if err != nil {
			return 2, fmt.Errorf("error reading input: %v", err)
		}
	}

	out, err := mmdgrid.Render(string(src), opts...)
	if err != nil {
		_, _ = fmt.Fprintln(wErr, err)
		return 1, nil
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(out), 0o644); err != nil {
			return 2, fmt.Errorf("failed to write output: %v", err)
		}
		return 0, nil
	}
	_, _ = fmt.Fprint(w, out)
	return 0, nil
}

func parseDirection(s string) (ast.Direction, error) {
	switch s {
	case "TD", "TB":
		return ast.TD, nil
	case "BT":
		return ast.BT, nil
	case "LR":
		return ast.LR, nil
	case "RL":
		return ast.RL, nil
	default:
		return ast.TD, fmt.Errorf("invalid -direction=%q: must be one of TD, BT, LR, RL", s)
	}
}
