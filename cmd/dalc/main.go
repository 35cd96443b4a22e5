package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dal-lang/dalc/internal/codegen"
	"github.com/dal-lang/dalc/internal/driverutil"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: dalc <command> [options]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  build     Compile a Dal source file\n")
		fmt.Fprintf(os.Stderr, "  help      Show this message\n")
		fmt.Fprintf(os.Stderr, "  version   Print the compiler version\n")
		fmt.Fprintf(os.Stderr, "  license   Print license information\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		os.Exit(runBuild(args))
	case "help":
		flag.Usage()
	case "version":
		fmt.Println("dalc (development build)")
	case "license":
		fmt.Println("see LICENSE")
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cfg := driverutil.Config{}
	fs.StringVar(&cfg.Input, "input", "", "entry source file (required)")
	fs.StringVar(&cfg.Type, "type", "exe", "one of exe, lib, obj")
	fs.StringVar(&cfg.Output, "output", "a.out", "output path")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "extra tracing")
	fs.BoolVar(&cfg.Static, "static", false, "statically link")
	fs.BoolVar(&cfg.Strip, "strip", false, "strip debug symbols")
	fs.BoolVar(&cfg.Release, "release", false, "aggressive optimization")
	fs.Parse(args)

	if cfg.Input == "" {
		fmt.Fprintln(os.Stderr, "build: --input is required")
		return 1
	}

	rootDir := filepath.Dir(cfg.Input)
	stdlibDir := os.Getenv("DAL_STDLIB_DIR")

	orch := codegen.New(stdlibDir)
	cfg.Apply(orch, rootDir)
	return orch.Generate(cfg.Input)
}
