package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/potools/pocat/project"
)

// statsConfig holds flags for the stats command.
type statsConfig struct {
	root    string
	verbose bool
}

func usageStats() {
	fmt.Fprintf(os.Stderr, `usage: pocat stats [options]

Stats reads every locale catalog and prints translation progress: message
totals, translated and fuzzy counts and parked obsolete entries.

Flags:
`)
	flag.CommandLine.PrintDefaults()
}

func parseStatsFlags(args []string) (*statsConfig, error) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = usageStats
	var cfg statsConfig
	fs.StringVar(&cfg.root, "dir", ".", "Project root directory containing pocat.yaml.")
	fs.BoolVar(&cfg.verbose, "v", false, "Verbose logging.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runStats(cfg *statsConfig) error {
	log := newLogger(cfg.verbose)
	p, err := project.Load(cfg.root, &log)
	if err != nil {
		return err
	}
	stats, err := p.Stats()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOCALE\tTOTAL\tTRANSLATED\tFUZZY\tOBSOLETE\tDONE")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.0f%%\n",
			s.Locale, s.Total, s.Translated, s.Fuzzy, s.Obsolete, s.Percent())
	}
	return w.Flush()
}
