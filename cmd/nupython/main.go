// Command nupython scans, parses and executes a nuPython program, from a
// file or from standard input up to the '$' sentinel.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/agenthands/nupython/pkg/compiler/ast"
	"github.com/agenthands/nupython/pkg/compiler/lexer"
	"github.com/agenthands/nupython/pkg/compiler/parser"
	"github.com/agenthands/nupython/pkg/compiler/python"
	"github.com/agenthands/nupython/pkg/config"
	"github.com/agenthands/nupython/pkg/source"
	"github.com/agenthands/nupython/pkg/stdlib"
	"github.com/agenthands/nupython/pkg/vm"
)

const (
	exitOK       = 0
	exitIO       = 1
	exitSyntax   = 2
	exitSemantic = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "nupython: ", 0)

	fs := flag.NewFlagSet("nupython", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: nupython [flags] [program]")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", os.Getenv(config.EnvPath), "YAML config file")
	showGraph := fs.Bool("graph", false, "print the program graph before executing")
	dumpMemory := fs.Bool("memory", true, "print memory after the run")
	tokensOnly := fs.Bool("tokens", false, "print the token stream and stop")
	pyFrontend := fs.Bool("py", false, "read indented Python syntax instead of braces")
	gas := fs.Int("gas", 0, "maximum statements executed (0 = unlimited)")
	native := fs.Bool("native", false, "use native int64 arithmetic for int op int")
	lenient := fs.Bool("lenient", false, "always exit 0")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitIO
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitIO
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Print(err)
			return exitIO
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "graph":
			cfg.ShowGraph = *showGraph
		case "memory":
			cfg.DumpMemory = *dumpMemory
		case "py":
			cfg.Frontend = config.FrontendNuPython
			if *pyFrontend {
				cfg.Frontend = config.FrontendPython
			}
		case "gas":
			cfg.Gas = *gas
		case "native":
			cfg.IntegerMath = config.MathFloat
			if *native {
				cfg.IntegerMath = config.MathNative
			}
		case "lenient":
			cfg.LenientExit = *lenient
		}
	})
	if cfg.Gas < 0 {
		logger.Printf("invalid gas limit %d", cfg.Gas)
		return exitIO
	}

	d := &driver{cfg: cfg, stdout: stdout, keyboard: source.Keyboard(stdin)}

	in := d.keyboard
	if fs.NArg() == 1 {
		name := fs.Arg(0)
		f, err := source.Open(name, cfg.MaxSourceBytes)
		if err != nil {
			fmt.Fprintf(stdout, "**ERROR: unable to open input file '%s' for input.\n", name)
			logger.Print(err)
			return d.exit(exitIO)
		}
		defer f.Close()
		in = f.Reader
	} else {
		fmt.Fprintln(stdout, cfg.Prompt)
	}

	if *tokensOnly {
		for _, tok := range lexer.Tokens(in, stdout) {
			fmt.Fprintln(stdout, tok)
		}
		return d.exit(exitOK)
	}

	prog, err := d.compile(in)
	if fs.NArg() == 0 {
		source.SkipBlankLine(d.keyboard)
	}
	if err != nil {
		fmt.Fprintln(stdout, err)
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) || errors.Is(err, python.ErrSyntax) {
			return d.exit(exitSyntax)
		}
		logger.Print(err)
		return d.exit(exitIO)
	}
	return d.exit(d.execute(prog))
}

type driver struct {
	cfg      *config.Config
	stdout   io.Writer
	keyboard *bufio.Reader
}

func (d *driver) exit(code int) int {
	if d.cfg.LenientExit {
		return exitOK
	}
	return code
}

// compile reads the program from in, stopping at '$' so the rest of the
// stream is left for input().
func (d *driver) compile(in *bufio.Reader) (*ast.Program, error) {
	if d.cfg.Frontend == config.FrontendPython {
		src, err := in.ReadString('$')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return python.NewCompiler().Compile(strings.TrimSuffix(src, "$"))
	}

	s := lexer.NewScanner(in)
	s.Warnings = d.stdout
	return parser.NewParser(s).Parse()
}

func (d *driver) execute(prog *ast.Program) int {
	fmt.Fprintln(d.stdout, "**no syntax errors...")
	fmt.Fprintln(d.stdout, "**building program graph...")
	if d.cfg.ShowGraph {
		ast.Fprint(d.stdout, prog)
	}

	fmt.Fprintln(d.stdout, "**executing...")
	m := stdlib.NewMachine(d.keyboard, d.stdout)
	d.cfg.Apply(m)

	code := exitOK
	if err := m.Execute(prog); err != nil {
		code = exitSemantic
		var semErr *vm.SemanticError
		if !errors.As(err, &semErr) {
			code = exitIO
		}
	}

	fmt.Fprintln(d.stdout, "**done")
	if d.cfg.DumpMemory {
		m.Memory.Dump(d.stdout)
	}
	return code
}
