// cmc is the command-line front end: it lexes, parses, and compiles a
// single source file, optionally dumping the parsed AST as JSON and/or
// printing the compiled instruction stream's fingerprint.
package main

import (
	"fmt"
	"os"

	"github.com/cmlang/cmc/pkg/astjson"
	"github.com/cmlang/cmc/pkg/cli"
	"github.com/cmlang/cmc/pkg/codegen"
	"github.com/cmlang/cmc/pkg/config"
	"github.com/cmlang/cmc/pkg/diag"
	"github.com/cmlang/cmc/pkg/lexer"
	"github.com/cmlang/cmc/pkg/parser"
)

func usage() {
	fmt.Println("Usage:\n\tcmc [file]")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := cli.NewFlagSet("cmc")
	var dumpAST, fingerprint, noColor bool
	fs.Bool(&dumpAST, "dump-ast", "d", false, "dump the parsed AST as JSON")
	fs.Bool(&fingerprint, "fingerprint", "", false, "print the instruction stream's fingerprint")
	fs.Bool(&noColor, "no-color", "", false, "disable ANSI diagnostics")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	positional := fs.Args()
	if len(positional) == 0 {
		usage()
		return 0
	}

	cfg := config.Default()
	cfg.ApplyFromArgs(noColor, dumpAST, fingerprint)
	diag.ColorEnabled = cfg.Colorize

	path := positional[0]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cmc: input file non-existent.")
		return 1
	}
	diag.SetSource(source)

	p := parser.New(lexer.New(source), diag.Error)
	prog := p.Parse()

	if cfg.DumpAST {
		out, err := astjson.MarshalProgram(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(out))
	}

	instrs := codegen.Compile(prog)

	if cfg.Fingerprint {
		fmt.Printf("%016x\n", codegen.Fingerprint(instrs))
	}

	return 0
}
