package report

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpan/ftndb/internal/nodelist"
	"github.com/gitpan/ftndb/internal/schema"
	"github.com/gitpan/ftndb/internal/store"
)

func testTable(t *testing.T) *store.NodelistTable {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ftndb-test.db")
	st, err := store.Open(context.Background(), schema.EngineSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	nodes := store.NewNodelistTable(st, "Nodelist")
	require.NoError(t, nodes.EnsureFreshTable(context.Background()))
	return nodes
}

func TestRender_NilWriterFails(t *testing.T) {
	err := Render(nil, 1, 105, nil)
	assert.ErrorIs(t, err, ErrNoOutputTarget)

	err = List(context.Background(), nil, 1, 105, nil)
	assert.ErrorIs(t, err, ErrNoOutputTarget)
}

func TestRender_FixedColumnBlocks(t *testing.T) {
	recs := []nodelist.Record{
		{Node: 5, Name: "Acme", Sysop: "Bob", Location: "City", Phone: "555-1111", Baud: "9600", Flags: "CM"},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, 1, 105, recs))

	out := buf.String()
	assert.Contains(t, out, "Nodelist for zone 1 net 105 (1 nodes)")
	assert.Contains(t, out, "Node:      5\n")
	assert.Contains(t, out, "Name:      Acme\n")
	assert.Contains(t, out, "Sysop:     Bob\n")
	assert.Contains(t, out, "Location:  City\n")
	assert.Contains(t, out, "Phone:     555-1111\n")
	assert.Contains(t, out, "Baud:      9600\n")
	assert.Contains(t, out, "Flags:     CM\n")
}

func TestList_OrderedByNode(t *testing.T) {
	ctx := context.Background()
	nodes := testTable(t)

	for _, n := range []int{42, 5, 17} {
		rec := nodelist.Record{
			Zone: 1, Net: 105, Node: n,
			Name: "Node", Flags: " ", Domain: "fidonet",
		}
		require.NoError(t, nodes.Insert(ctx, &rec))
	}

	var buf bytes.Buffer
	require.NoError(t, List(ctx, nodes, 1, 105, &buf))

	out := buf.String()
	first := bytes.Index(buf.Bytes(), []byte("Node:      5\n"))
	second := bytes.Index(buf.Bytes(), []byte("Node:      17\n"))
	third := bytes.Index(buf.Bytes(), []byte("Node:      42\n"))
	require.NotEqual(t, -1, first, out)
	require.NotEqual(t, -1, second, out)
	require.NotEqual(t, -1, third, out)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestList_EmptyResultStillWritesHeader(t *testing.T) {
	ctx := context.Background()
	nodes := testTable(t)

	var buf bytes.Buffer
	require.NoError(t, List(ctx, nodes, 3, 300, &buf))
	assert.Contains(t, buf.String(), "Nodelist for zone 3 net 300 (0 nodes)")
}
