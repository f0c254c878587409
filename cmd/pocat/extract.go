package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/potools/pocat/project"
)

// extractConfig holds flags for the extract command.
type extractConfig struct {
	root    string
	verbose bool
}

func usageExtract() {
	fmt.Fprintf(os.Stderr, `usage: pocat extract [options]

Extract scans the project's Go source tree for translation calls and rewrites
the POT template. Keywords, comment tags and paths come from pocat.yaml.

Flags:
`)
	flag.CommandLine.PrintDefaults()
}

func parseExtractFlags(args []string) (*extractConfig, error) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	fs.Usage = usageExtract
	var cfg extractConfig
	fs.StringVar(&cfg.root, "dir", ".", "Project root directory containing pocat.yaml.")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runExtract(cfg *extractConfig) error {
	log := newLogger(cfg.verbose)
	p, err := project.Load(cfg.root, &log)
	if err != nil {
		return err
	}
	_, err = p.ExtractTemplate()
	return err
}
