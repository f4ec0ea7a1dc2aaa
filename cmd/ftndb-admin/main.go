// Command ftndb-admin administers the nodelist table: creating it,
// dropping it, and refreshing it via drop-then-create.
//
// Usage:
//
//	ftndb-admin [-config ftndb.yaml] <create|drop|refresh> [-table t]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/gitpan/ftndb/internal/config"
	"github.com/gitpan/ftndb/internal/logging"
	"github.com/gitpan/ftndb/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("ftndb-admin", flag.ExitOnError)
	cfgPath := global.String("config", "", "path to config file (default: search for ftndb.yaml)")
	global.Usage = usage
	if err := global.Parse(args); err != nil {
		return err
	}

	if global.NArg() < 1 {
		usage()
		return fmt.Errorf("missing subcommand")
	}
	switch global.Arg(0) {
	case "create", "drop", "refresh":
	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", global.Arg(0))
	}

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

	fs := flag.NewFlagSet(global.Arg(0), flag.ExitOnError)
	table := fs.String("table", cfg.Nodelist.Table, "nodelist table name")
	dated := fs.Bool("dated", false, "index ftnyear/yearday too, for tables holding several editions")
	if err := fs.Parse(global.Args()[1:]); err != nil {
		return err
	}

	ctx := context.Background()

	engine, err := cfg.Database.Engine()
	if err != nil {
		return err
	}
	dsn, err := cfg.Database.DSN()
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, engine, dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	nodes := store.NewNodelistTable(st, *table)
	if *dated {
		nodes.IndexDated()
	}

	switch global.Arg(0) {
	case "create":
		if err := nodes.CreateTable(ctx); err != nil {
			return err
		}
		if err := nodes.CreateIndex(ctx); err != nil {
			return err
		}
		slog.Info("nodelist table created", "table", nodes.Name(), "engine", engine.String())

	case "drop":
		nodes.DropIndex(ctx)
		if err := nodes.DropTable(ctx); err != nil {
			return err
		}
		slog.Info("nodelist table dropped", "table", nodes.Name())

	case "refresh":
		if err := nodes.EnsureFreshTable(ctx); err != nil {
			return err
		}
		slog.Info("nodelist table refreshed", "table", nodes.Name(), "engine", engine.String())
	}

	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ftndb-admin [-config file] <subcommand> [-table t]

Subcommands:
  create   create the nodelist table and its composite index
  drop     drop the nodelist table and index
  refresh  drop and recreate the table (the idempotent reset)
`)
}
