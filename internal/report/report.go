// Package report renders the filtered nodelist retrieval as a fixed-column
// text report: one zone/net header, then one labeled block per node row.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gitpan/ftndb/internal/nodelist"
	"github.com/gitpan/ftndb/internal/store"
)

// ErrNoOutputTarget indicates List was invoked without a destination
// configured; it is surfaced before any store I/O is attempted.
var ErrNoOutputTarget = errors.New("no output target configured")

// List queries all nodes in the given zone and net, ordered ascending by
// node number, and writes the rendered report to w. Both zone and net are
// mandatory; there is no all-zones mode.
func List(ctx context.Context, table *store.NodelistTable, zone, net int, w io.Writer) error {
	if w == nil {
		return ErrNoOutputTarget
	}

	recs, err := table.ListByZoneNet(ctx, zone, net)
	if err != nil {
		return err
	}

	return Render(w, zone, net, recs)
}

// Render writes the report for an already-retrieved row set. Rendering is
// pure formatting: no side effects beyond writing to w.
func Render(w io.Writer, zone, net int, recs []nodelist.Record) error {
	if w == nil {
		return ErrNoOutputTarget
	}

	if _, err := fmt.Fprintf(w, "Nodelist for zone %d net %d (%d nodes)\n\n", zone, net, len(recs)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	for _, rec := range recs {
		if err := renderBlock(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// renderBlock writes one node entry as a fixed set of labeled fields.
func renderBlock(w io.Writer, rec nodelist.Record) error {
	fields := []struct {
		label string
		value string
	}{
		{"Node", fmt.Sprintf("%d", rec.Node)},
		{"Name", rec.Name},
		{"Sysop", rec.Sysop},
		{"Location", rec.Location},
		{"Phone", rec.Phone},
		{"Baud", rec.Baud},
		{"Flags", rec.Flags},
	}

	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", f.label+":", f.value); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
