package schema

import (
	"fmt"
	"strings"
)

// Engine identifies a supported database engine family. The engine drives
// the primary-key DDL dialect and the sql driver name; every other
// statement the system emits is engine-neutral.
type Engine int

const (
	EngineSQLite Engine = iota
	EnginePostgres
	EngineMySQL
)

// ParseEngine maps a configured database type string onto an Engine.
// Recognized values (case-insensitive): sqlite, sqlite3, postgres,
// postgresql, pg, mysql, mariadb.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqlite", "sqlite3":
		return EngineSQLite, nil
	case "postgres", "postgresql", "pg":
		return EnginePostgres, nil
	case "mysql", "mariadb":
		return EngineMySQL, nil
	default:
		return EngineSQLite, fmt.Errorf("unsupported database type: %q", s)
	}
}

// String returns the canonical name of the engine.
func (e Engine) String() string {
	switch e {
	case EnginePostgres:
		return "postgres"
	case EngineMySQL:
		return "mysql"
	default:
		return "sqlite"
	}
}

// DriverName returns the database/sql driver name registered for the engine.
func (e Engine) DriverName() string {
	switch e {
	case EnginePostgres:
		return "pgx"
	case EngineMySQL:
		return "mysql"
	default:
		return "sqlite3"
	}
}

// primaryKey maps each engine family to its id-column DDL fragment.
// MySQL needs an explicit AUTO_INCREMENT key, PostgreSQL uses a
// sequence-backed serial, SQLite aliases INTEGER PRIMARY KEY to the rowid.
var primaryKey = map[Engine]string{
	EngineSQLite:   "id INTEGER PRIMARY KEY AUTOINCREMENT",
	EnginePostgres: "id SERIAL PRIMARY KEY",
	EngineMySQL:    "id MEDIUMINT NOT NULL AUTO_INCREMENT, PRIMARY KEY (id)",
}
