// Command ftndb-nodelist loads FTN nodelist files into the nodelist table
// and lists loaded nodes as a text report.
//
// Usage:
//
//	ftndb-nodelist [-config ftndb.yaml] load [-zone N] [-file name] [-domain d] [-table t]
//	ftndb-nodelist [-config ftndb.yaml] list -zone N -net N [-table t]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/gitpan/ftndb/internal/config"
	"github.com/gitpan/ftndb/internal/loader"
	"github.com/gitpan/ftndb/internal/logging"
	"github.com/gitpan/ftndb/internal/report"
	"github.com/gitpan/ftndb/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("ftndb-nodelist", flag.ExitOnError)
	cfgPath := global.String("config", "", "path to config file (default: search for ftndb.yaml)")
	global.Usage = usage
	if err := global.Parse(args); err != nil {
		return err
	}

	if global.NArg() < 1 {
		usage()
		return fmt.Errorf("missing subcommand")
	}

	// Load .env first so it can supply FTNDB_* variables (Overload
	// overwrites existing env vars).
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	closeLog, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Debug("configuration loaded", "config", cfg.String())

	switch global.Arg(0) {
	case "load":
		return runLoad(cfg, global.Args()[1:])
	case "list":
		return runList(cfg, global.Args()[1:])
	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", global.Arg(0))
	}
}

func runLoad(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	zone := fs.Int("zone", 0, "only load nodes from this zone (0 = all)")
	file := fs.String("file", "", "exact nodelist filename, absolute or relative to the nodelist directory (skips day-of-year selection)")
	domain := fs.String("domain", cfg.Nodelist.Domain, "FTN domain to stamp on loaded rows")
	table := fs.String("table", cfg.Nodelist.Table, "nodelist table name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	nodes := store.NewNodelistTable(st, *table)

	opts := loader.Options{
		Directory:    cfg.Nodelist.Directory,
		Basename:     cfg.Nodelist.Basename,
		Domain:       *domain,
		ZoneFilter:   *zone,
		YearOverride: cfg.Nodelist.FTNYear,

		// Replace the domain's previous edition. The loader invokes this
		// only once the new file is selected and readable, so a failed
		// load leaves the previous edition untouched.
		BeforeInsert: func(ctx context.Context) error {
			deleted, err := nodes.DeleteDomain(ctx, *domain)
			if err != nil {
				return err
			}
			if deleted > 0 {
				slog.Info("removed previous nodelist rows", "domain", *domain, "rows", deleted)
			}
			return nil
		},
	}
	if *file != "" {
		opts.Basename = *file
		opts.Exact = true
	}

	result, err := loader.Run(ctx, nodes, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d nodes from %s into %s\n", result.Inserted, result.File, nodes.Name())
	return nil
}

func runList(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	zone := fs.Int("zone", 0, "zone to list (required)")
	net := fs.Int("net", 0, "net to list (required)")
	table := fs.String("table", cfg.Nodelist.Table, "nodelist table name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *zone <= 0 || *net <= 0 {
		return fmt.Errorf("list requires -zone and -net")
	}

	ctx := context.Background()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	nodes := store.NewNodelistTable(st, *table)
	return report.List(ctx, nodes, *zone, *net, os.Stdout)
}

func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	engine, err := cfg.Database.Engine()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.Database.DSN()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, engine, dsn)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ftndb-nodelist [-config file] <subcommand> [flags]

Subcommands:
  load    load the most recent nodelist file into the database
  list    report all nodes in a zone and net

Run 'ftndb-nodelist <subcommand> -h' for subcommand flags.
`)
}
