package store

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpan/ftndb/internal/nodelist"
	"github.com/gitpan/ftndb/internal/schema"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ftndb-test.db")
	st, err := Open(context.Background(), schema.EngineSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func testRecord(zone, net, node int, name string) *nodelist.Record {
	return &nodelist.Record{
		Zone:     zone,
		Net:      net,
		Node:     node,
		Name:     name,
		Location: "Somewhere",
		Sysop:    "Some Sysop",
		Phone:    "000-000-000-000",
		Baud:     "9600",
		Flags:    " ",
		Domain:   "fidonet",
		FTNYear:  1995,
		YearDay:  200,
		Source:   "nodelist.200",
	}
}

func TestOpen_CreatesDirectoryAndPings(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "dir", "ftndb.db")
	st, err := Open(context.Background(), schema.EngineSQLite, dsn)
	require.NoError(t, err)
	assert.Equal(t, schema.EngineSQLite, st.Engine())
	require.NoError(t, st.Close())
}

// captureLog redirects the default logger into a buffer for the duration
// of the test.
func captureLog(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestNodelistTable_NormalizesName(t *testing.T) {
	st := testStore(t)
	buf := captureLog(t, slog.LevelInfo)

	nodes := NewNodelistTable(st, "fidonet.nodelist")
	assert.Equal(t, "fidonet_nodelist", nodes.Name())

	// The substitution must be reported, not hidden.
	assert.Contains(t, buf.String(), "table name normalized")
	assert.Contains(t, buf.String(), "fidonet.nodelist")
	assert.Contains(t, buf.String(), "fidonet_nodelist")

	// The normalized name must be usable in every statement.
	require.NoError(t, nodes.EnsureFreshTable(context.Background()))
}

func TestNodelistTable_CleanNameEmitsNoNotice(t *testing.T) {
	st := testStore(t)
	buf := captureLog(t, slog.LevelInfo)

	NewNodelistTable(st, "Nodelist")
	assert.NotContains(t, buf.String(), "table name normalized")
}

func TestEnsureFreshTable_Idempotent(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	nodes := NewNodelistTable(st, "Nodelist")

	require.NoError(t, nodes.EnsureFreshTable(ctx))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 42, "Stale")))

	// Running it again replaces the table wholesale.
	require.NoError(t, nodes.EnsureFreshTable(ctx))

	recs, err := nodes.ListByZoneNet(ctx, 1, 105)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestInsertAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	nodes := NewNodelistTable(st, "Nodelist")
	require.NoError(t, nodes.EnsureFreshTable(ctx))

	// Inserted out of node order; retrieval must sort ascending.
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 42, "Charlie")))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 5, "Alpha")))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 17, "Bravo")))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 106, 1, "OtherNet")))
	require.NoError(t, nodes.Insert(ctx, testRecord(2, 105, 1, "OtherZone")))

	recs, err := nodes.ListByZoneNet(ctx, 1, 105)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []int{5, 17, 42}, []int{recs[0].Node, recs[1].Node, recs[2].Node})
	assert.Equal(t, "Alpha", recs[0].Name)
	assert.Equal(t, "Some Sysop", recs[0].Sysop)
	assert.Equal(t, "nodelist.200", recs[0].Source)
	assert.Equal(t, 1995, recs[0].FTNYear)
}

func TestDeleteDomain(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	nodes := NewNodelistTable(st, "Nodelist")
	require.NoError(t, nodes.EnsureFreshTable(ctx))

	rec := testRecord(1, 105, 5, "Keep")
	rec.Domain = "othernet"
	require.NoError(t, nodes.Insert(ctx, rec))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 6, "Gone")))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 7, "Gone too")))

	deleted, err := nodes.DeleteDomain(ctx, "fidonet")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	recs, err := nodes.ListByZoneNet(ctx, 1, 105)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Keep", recs[0].Name)
}

func TestIndexDated_BuildsDatedVariant(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	nodes := NewNodelistTable(st, "Nodelist")
	nodes.IndexDated()

	require.NoError(t, nodes.EnsureFreshTable(ctx))
	require.NoError(t, nodes.Insert(ctx, testRecord(1, 105, 5, "Alpha")))

	recs, err := nodes.ListByZoneNet(ctx, 1, 105)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestDropIndex_MissingIndexTolerated(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	nodes := NewNodelistTable(st, "Nodelist")
	require.NoError(t, nodes.EnsureFreshTable(ctx))

	// Dropping twice must not blow up: absence of the index is fine.
	nodes.DropIndex(ctx)
	nodes.DropIndex(ctx)
	require.NoError(t, nodes.CreateIndex(ctx))
}

func TestDropIndex_RealFailureLoggedAtWarn(t *testing.T) {
	ctx := context.Background()
	st := testStore(t)
	nodes := NewNodelistTable(st, "Nodelist")
	require.NoError(t, nodes.EnsureFreshTable(ctx))

	// A closed handle makes the IF EXISTS drop itself fail, which is a
	// real error and must be visible, unlike a merely missing index.
	require.NoError(t, st.Close())
	buf := captureLog(t, slog.LevelWarn)

	nodes.DropIndex(ctx)
	assert.Contains(t, buf.String(), "drop index failed")
}
