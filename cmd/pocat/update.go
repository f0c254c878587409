package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/potools/pocat"
	"github.com/potools/pocat/project"
)

// updateConfig holds flags for the update command.
type updateConfig struct {
	root          string
	noFuzzy       bool
	updateHeader  bool
	discardTransl bool
	verbose       bool
}

func usageUpdate() {
	fmt.Fprintf(os.Stderr, `usage: pocat update [options]

Update re-extracts the POT template and reconciles every locale catalog
against it: existing translations are carried over, renamed messages are
fuzzy-matched, new messages are added untranslated and removed messages are
parked as obsolete.

Flags:
`)
	flag.CommandLine.PrintDefaults()
}

func parseUpdateFlags(args []string) (*updateConfig, error) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	fs.Usage = usageUpdate
	var cfg updateConfig
	fs.StringVar(&cfg.root, "dir", ".", "Project root directory containing pocat.yaml.")
	fs.BoolVar(&cfg.noFuzzy, "no-fuzzy-matching", false, "Disable fuzzy matching of renamed messages.")
	fs.BoolVar(&cfg.updateHeader, "update-header-comment", false, "Replace each catalog's header comment with the template's.")
	fs.BoolVar(&cfg.discardTransl, "discard-translator-comments", false, "Drop translator comments instead of carrying them over.")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runUpdate(cfg *updateConfig) error {
	log := newLogger(cfg.verbose)
	p, err := project.Load(cfg.root, &log)
	if err != nil {
		return err
	}
	return p.UpdateAll(&pocat.UpdateOptions{
		NoFuzzyMatching:     cfg.noFuzzy,
		UpdateHeaderComment: cfg.updateHeader,
		DiscardUserComments: cfg.discardTransl,
	})
}
