package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	sub := os.Args[1]
	args := os.Args[2:]
	var err error
	switch sub {
	case "init":
		cfg, e := parseInitFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runInit(cfg)
	case "extract":
		cfg, e := parseExtractFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runExtract(cfg)
	case "update":
		cfg, e := parseUpdateFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runUpdate(cfg)
	case "compile":
		cfg, e := parseCompileFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runCompile(cfg)
	case "stats":
		cfg, e := parseStatsFlags(args)
		if e != nil {
			err = e
			break
		}
		err = runStats(cfg)
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "pocat: unknown subcommand %q\n", sub)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "pocat: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `pocat - message catalog workflow for Go projects

usage: pocat <command> [options]

commands:
  init       Create the manifest, template and per-locale catalogs.
  extract    Scan Go sources and rewrite the POT template.
  update     Re-extract the template and reconcile every locale catalog.
  compile    Write binary MO files for every locale catalog.
  stats      Report translation progress per locale.

Use 'pocat <command> -h' for command-specific flags.
`)
}

// newLogger builds the CLI logger: pretty console output on a terminal,
// plain JSON when piped.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var log zerolog.Logger
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Logger()
}
