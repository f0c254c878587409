package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/potools/pocat/project"
)

// compileConfig holds flags for the compile command.
type compileConfig struct {
	root    string
	verbose bool
}

func usageCompile() {
	fmt.Fprintf(os.Stderr, `usage: pocat compile [options]

Compile writes a binary MO file next to every locale catalog. Fuzzy and
untranslated messages are skipped, matching msgfmt's defaults.

Flags:
`)
	flag.CommandLine.PrintDefaults()
}

func parseCompileFlags(args []string) (*compileConfig, error) {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	fs.Usage = usageCompile
	var cfg compileConfig
	fs.StringVar(&cfg.root, "dir", ".", "Project root directory containing pocat.yaml.")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runCompile(cfg *compileConfig) error {
	log := newLogger(cfg.verbose)
	p, err := project.Load(cfg.root, &log)
	if err != nil {
		return err
	}
	return p.CompileAll()
}
