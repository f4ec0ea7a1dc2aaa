// Package loader orchestrates a nodelist load: pick the dated file, drop
// the composite index, stream every line through the parser, filter by
// zone when asked, insert the surviving records, and rebuild the index.
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/gitpan/ftndb/internal/nodelist"
	"github.com/gitpan/ftndb/internal/store"
)

// Options configures one load run.
type Options struct {
	// Directory holds the nodelist files; Basename is the filename stem
	// to select on (e.g. "nodelist" matches "nodelist.365").
	Directory string
	Basename  string

	// Exact treats Basename as the complete filename, skipping selection.
	Exact bool

	// Domain stamps every loaded row; empty means "fidonet".
	Domain string

	// ZoneFilter, when positive, discards records from other zones.
	// Filtered lines still update the parser's carried state.
	ZoneFilter int

	// YearOverride forces the ftnyear stamp for archival loads; zero
	// derives the year from the file's modification time.
	YearOverride int

	// BeforeInsert, when non-nil, runs after the nodelist file has been
	// selected and opened but before any row is touched. A reload passes
	// a callback here that clears the domain's previous rows, so a load
	// that fails at selection or open cannot destroy data it will not
	// replace. An error aborts the run.
	BeforeInsert func(ctx context.Context) error
}

// Result reports what one load run did.
type Result struct {
	RunID     string
	File      string
	Lines     int
	Skipped   int
	Malformed int
	Filtered  int
	Inserted  int
	Duration  time.Duration
}

// Run executes a full load against the given table. A row insertion
// failure aborts the run; the table is left in whatever partial state
// insertion reached, with the index rebuilt so the table stays queryable.
func Run(ctx context.Context, table *store.NodelistTable, opts Options) (*Result, error) {
	start := time.Now()

	result := &Result{RunID: uuid.New().String()}
	log := slog.With("run_id", result.RunID, "table", table.Name())

	name, err := nodelist.SelectFile(opts.Directory, opts.Basename, opts.Exact)
	if err != nil {
		return nil, err
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.Directory, name)
	}
	result.File = name

	desc, err := nodelist.DescribeFile(path, opts.YearOverride)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nodelist file: %w", err)
	}
	defer file.Close()

	// The file is readable; only now is it safe to let the caller clear
	// what this load replaces.
	if opts.BeforeInsert != nil {
		if err := opts.BeforeInsert(ctx); err != nil {
			return nil, err
		}
	}

	log.Info("loading nodelist",
		"file", name,
		"ftnyear", desc.Year,
		"yearday", desc.YearDay,
		"zone_filter", opts.ZoneFilter,
	)

	parser := nodelist.NewParser(opts.Domain)
	parser.FTNYear = desc.Year
	parser.YearDay = desc.YearDay
	parser.Source = filepath.Base(name)

	// Bulk insertion runs without the index; it is rebuilt afterwards in
	// one pass instead of being maintained per row.
	table.DropIndex(ctx)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	insertErr := func() error {
		for scanner.Scan() {
			result.Lines++

			rec, ok, err := parser.ParseLine(scanner.Text())
			if err != nil {
				if errors.Is(err, nodelist.ErrMalformedLine) {
					result.Malformed++
					log.Warn("skipping malformed line", "line", result.Lines, "error", err)
					continue
				}
				return err
			}
			if !ok {
				result.Skipped++
				continue
			}

			if opts.ZoneFilter > 0 && rec.Zone != opts.ZoneFilter {
				result.Filtered++
				continue
			}

			if err := table.Insert(ctx, &rec); err != nil {
				return fmt.Errorf("line %d: %w", result.Lines, err)
			}
			result.Inserted++
		}
		return scanner.Err()
	}()

	// Rebuild the index on every exit path so a failed run does not leave
	// the table unindexed.
	if err := table.CreateIndex(ctx); err != nil {
		if insertErr == nil {
			return nil, err
		}
		log.Warn("index rebuild failed after aborted load", "error", err)
	}

	if insertErr != nil {
		return nil, insertErr
	}

	result.Duration = time.Since(start)
	log.Info("nodelist loaded",
		"file", name,
		"lines", result.Lines,
		"inserted", result.Inserted,
		"filtered", result.Filtered,
		"skipped", result.Skipped,
		"malformed", result.Malformed,
		"duration", result.Duration,
	)
	return result, nil
}
