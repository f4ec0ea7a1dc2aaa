package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gitpan/ftndb/internal/nodelist"
	"github.com/gitpan/ftndb/internal/schema"
)

// NodelistTable executes the nodelist table's statements against a Store.
// The table name is normalized once at construction; every statement the
// loader, query and admin paths emit goes through here.
type NodelistTable struct {
	store *Store
	table string

	insertStmt string
	indexCols  []string
}

// NewNodelistTable binds a Store to a (possibly caller-supplied) table
// name. A '.' in the name is replaced with '_' and the substitution is
// logged as a notice.
func NewNodelistTable(s *Store, table string) *NodelistTable {
	normalized, changed := schema.NormalizeTableName(table)
	if changed {
		slog.Info("table name normalized for SQL compatibility",
			"requested", table,
			"using", normalized,
		)
	}

	cols := strings.Join(schema.InsertColumns, ", ")
	binds := ":" + strings.Join(schema.InsertColumns, ", :")

	return &NodelistTable{
		store:      s,
		table:      normalized,
		insertStmt: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", normalized, cols, binds),
		indexCols:  schema.NodeIndexColumns,
	}
}

// IndexDated switches the table to the index variant that also covers
// ftnyear and yearday, for tables holding several nodelist editions side
// by side. Must be called before CreateIndex.
func (n *NodelistTable) IndexDated() {
	n.indexCols = schema.NodeIndexColumnsDated
}

// Name returns the normalized table name.
func (n *NodelistTable) Name() string {
	return n.table
}

// CreateTable creates the table with the engine's primary-key dialect.
func (n *NodelistTable) CreateTable(ctx context.Context) error {
	stmt := schema.CreateTableStatement(n.store.engine, n.table)
	if _, err := n.store.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", n.table, err)
	}
	return nil
}

// DropTable drops the table; a missing table is not an error.
func (n *NodelistTable) DropTable(ctx context.Context) error {
	if _, err := n.store.db.ExecContext(ctx, schema.DropTableStatement(n.table)); err != nil {
		return fmt.Errorf("drop table %s: %w", n.table, err)
	}
	return nil
}

// EnsureFreshTable is the drop-then-create idempotence operation: after it
// returns, exactly one table with the defined schema exists, regardless of
// what was there before. It also builds the composite index.
func (n *NodelistTable) EnsureFreshTable(ctx context.Context) error {
	if err := n.DropTable(ctx); err != nil {
		return err
	}
	if err := n.CreateTable(ctx); err != nil {
		return err
	}
	return n.CreateIndex(ctx)
}

// CreateIndex builds the composite (zone, net, node, point, domain) index,
// or the dated variant when IndexDated was called.
func (n *NodelistTable) CreateIndex(ctx context.Context) error {
	stmt := schema.CreateIndexStatement(n.table, n.indexCols)
	if _, err := n.store.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create index on %s: %w", n.table, err)
	}
	return nil
}

// DropIndex removes the composite index before a bulk load. Absence of
// the index is not an error. MySQL has no DROP INDEX IF EXISTS, so a
// failed drop there is expected and logged at debug level; the other
// engines use IF EXISTS, making any failure a real one worth a warning.
func (n *NodelistTable) DropIndex(ctx context.Context) {
	stmt := schema.DropIndexStatement(n.store.engine, n.table)
	if _, err := n.store.db.ExecContext(ctx, stmt); err != nil {
		if n.store.engine == schema.EngineMySQL {
			slog.Debug("drop index skipped", "table", n.table, "error", err)
			return
		}
		slog.Warn("drop index failed", "table", n.table, "error", err)
	}
}

// Insert persists one parsed record as a new row. The id and updated
// columns are assigned by the engine.
func (n *NodelistTable) Insert(ctx context.Context, rec *nodelist.Record) error {
	if _, err := n.store.db.NamedExecContext(ctx, n.insertStmt, rec); err != nil {
		return fmt.Errorf("insert node %s: %w", rec.Address(), err)
	}
	return nil
}

// DeleteDomain removes all rows loaded for a domain, returning the count
// deleted. A reload calls this before loading so the domain's previous
// nodelist edition is replaced rather than duplicated.
func (n *NodelistTable) DeleteDomain(ctx context.Context, domain string) (int64, error) {
	q := n.store.db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE domain = ?", n.table))
	res, err := n.store.db.ExecContext(ctx, q, domain)
	if err != nil {
		return 0, fmt.Errorf("delete domain %s from %s: %w", domain, n.table, err)
	}
	count, _ := res.RowsAffected()
	return count, nil
}

// ListByZoneNet returns all rows with the given zone and net, ordered
// ascending by node. Both filters are mandatory; the composite index
// keeps this retrieval ordered without a sort.
func (n *NodelistTable) ListByZoneNet(ctx context.Context, zone, net int) ([]nodelist.Record, error) {
	cols := strings.Join(schema.InsertColumns, ", ")
	q := n.store.db.Rebind(fmt.Sprintf(
		"SELECT %s FROM %s WHERE zone = ? AND net = ? ORDER BY node ASC", cols, n.table))

	var recs []nodelist.Record
	if err := n.store.db.SelectContext(ctx, &recs, q, zone, net); err != nil {
		return nil, fmt.Errorf("list zone %d net %d from %s: %w", zone, net, n.table, err)
	}
	return recs, nil
}
