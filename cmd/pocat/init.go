package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/potools/pocat/project"
)

// initConfig holds flags for the init command.
type initConfig struct {
	root    string
	source  string
	domain  string
	name    string
	version string
	locales string
	verbose bool
}

func usageInit() {
	fmt.Fprintf(os.Stderr, `usage: pocat init [options]

Init writes a pocat.yaml manifest, extracts the POT template from the source
tree and creates one untranslated catalog per locale. Existing catalogs are
left untouched.

Flags:
`)
	flag.CommandLine.PrintDefaults()
}

func parseInitFlags(args []string) (*initConfig, error) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = usageInit
	var cfg initConfig
	fs.StringVar(&cfg.root, "dir", ".", "Project root directory.")
	fs.StringVar(&cfg.source, "source", ".", "Go source tree to extract from, relative to the root.")
	fs.StringVar(&cfg.domain, "domain", "messages", "Catalog domain name.")
	fs.StringVar(&cfg.name, "name", "", "Project name for catalog headers.")
	fs.StringVar(&cfg.version, "version", "", "Project version for catalog headers.")
	fs.StringVar(&cfg.locales, "locales", "", "Comma-separated locale identifiers (e.g. de,fr,pt_BR).")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runInit(cfg *initConfig) error {
	log := newLogger(cfg.verbose)
	var locales []string
	for _, l := range strings.Split(cfg.locales, ",") {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	p, err := project.NewProject(cfg.root, project.Config{
		SourceDir: cfg.source,
		Domain:    cfg.domain,
		Project:   cfg.name,
		Version:   cfg.version,
		Locales:   locales,
		Logger:    &log,
	})
	if err != nil {
		return err
	}
	if err := p.WriteManifest(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return p.Init()
}
