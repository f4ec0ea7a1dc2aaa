// Package schema defines the nodelist table: its column set, the
// per-engine primary-key strategy, and the composite index shared by the
// loader and the query path. Both sides must agree on the same index so
// that the ordered (zone, net) retrieval stays index-assisted.
package schema

import (
	"fmt"
	"strings"
)

// DefaultTable is the table name used when the caller supplies none.
const DefaultTable = "Nodelist"

// NodeIndexColumns is the reference composite index covering the ordered
// filtered retrieval. NodeIndexColumnsDated is the richer variant used
// when several nodelist editions share one table.
var (
	NodeIndexColumns      = []string{"zone", "net", "node", "point", "domain"}
	NodeIndexColumnsDated = []string{"zone", "net", "node", "point", "domain", "ftnyear", "yearday"}
)

// columns is the engine-neutral column list, in persisted order. The id
// primary key is engine-specific and prepended by CreateTableStatement.
var columns = []string{
	"type VARCHAR(6) NOT NULL DEFAULT ''",
	"zone SMALLINT NOT NULL DEFAULT 1",
	"net SMALLINT NOT NULL DEFAULT 1",
	"node SMALLINT NOT NULL DEFAULT 0",
	"point SMALLINT NOT NULL DEFAULT 0",
	"region SMALLINT NOT NULL DEFAULT 0",
	"name VARCHAR(48) NOT NULL DEFAULT ''",
	"location VARCHAR(48) NOT NULL DEFAULT ''",
	"sysop VARCHAR(48) NOT NULL DEFAULT ''",
	"phone VARCHAR(20) NOT NULL DEFAULT '000-000-000-000'",
	"baud VARCHAR(6) NOT NULL DEFAULT '300'",
	"flags VARCHAR(128) NOT NULL DEFAULT ' '",
	"domain VARCHAR(8) NOT NULL DEFAULT 'fidonet'",
	"ftnyear SMALLINT NOT NULL DEFAULT 0",
	"yearday SMALLINT NOT NULL DEFAULT 0",
	"source VARCHAR(16) NOT NULL DEFAULT ''",
	"updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP",
}

// InsertColumns lists the columns bound by the loader's INSERT; id and
// updated are assigned by the store.
var InsertColumns = []string{
	"type", "zone", "net", "node", "point", "region",
	"name", "location", "sysop", "phone", "baud", "flags",
	"domain", "ftnyear", "yearday", "source",
}

// NormalizeTableName replaces any '.' in a caller-supplied table name with
// '_' and reports whether a substitution happened. Dots are legal in FTN
// domain-derived names but not in SQL identifiers; callers must log the
// substitution rather than hide it.
func NormalizeTableName(name string) (string, bool) {
	if name == "" {
		return DefaultTable, false
	}
	normalized := strings.ReplaceAll(name, ".", "_")
	return normalized, normalized != name
}

// IndexName derives the composite index name for a table.
func IndexName(table string) string {
	return strings.ToLower(table) + "_ftnnode_idx"
}

// CreateTableStatement returns the CREATE TABLE text for the engine,
// with the engine's primary-key strategy prepended to the shared columns.
func CreateTableStatement(engine Engine, table string) string {
	defs := append([]string{primaryKey[engine]}, columns...)
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

// DropTableStatement returns the idempotent DROP TABLE text.
func DropTableStatement(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
}

// CreateIndexStatement returns the CREATE INDEX text for the given
// column set (NodeIndexColumns or NodeIndexColumnsDated).
func CreateIndexStatement(table string, cols []string) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		IndexName(table), table, strings.Join(cols, ", "))
}

// DropIndexStatement returns the DROP INDEX text. MySQL scopes indexes to
// their table and has no IF EXISTS form, so absence of the index must be
// tolerated by the executor rather than the statement.
func DropIndexStatement(engine Engine, table string) string {
	if engine == EngineMySQL {
		return fmt.Sprintf("DROP INDEX %s ON %s", IndexName(table), table)
	}
	return fmt.Sprintf("DROP INDEX IF EXISTS %s", IndexName(table))
}
