package table

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCollectsRows(t *testing.T) {
	client := newFakeClient("mysql")
	client.rows = &fakeRows{
		cols: []string{"id", "email"},
		data: [][]any{
			{int64(2), []byte("a@b")},
			{int64(3), []byte("c@d")},
		},
	}
	view := New("users", client)

	rows, err := view.Select(context.Background(), []string{"id", "email"}, "WHERE id > 1 ORDER BY id")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{"id": int64(2), "email": "a@b"}, rows[0])
	assert.Equal(t, Row{"id": int64(3), "email": "c@d"}, rows[1])
	assert.True(t, client.rows.closed)

	require.Len(t, client.executed, 1)
	assert.Equal(t, "SELECT `id`, `email` FROM `users` WHERE id > 1 ORDER BY id", client.executed[0].sql)
}

func TestInsertReportsInsertID(t *testing.T) {
	client := newFakeClient("mysql")
	client.result = fakeResult{affected: 1, insertID: 7}
	view := New("users", client)

	meta, err := view.Insert(context.Background(), Record{"email": "a@b"})
	require.NoError(t, err)
	assert.Equal(t, Meta{AffectedRows: 1, ChangedRows: 1, InsertID: 7}, meta)
}

func TestUpdateWithoutClauseTouchesEveryRow(t *testing.T) {
	client := newFakeClient("mysql")
	client.result = fakeResult{affected: 5}
	view := New("letters", client)

	meta, err := view.Update(context.Background(), Record{"letter": "?"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.AffectedRows)
	assert.Equal(t, int64(5), meta.ChangedRows)

	require.Len(t, client.executed, 1)
	assert.Equal(t, "UPDATE `letters` SET `letter` = ?", client.executed[0].sql)
	assert.Equal(t, []any{"?"}, client.executed[0].args)
}

func TestDeleteWithClause(t *testing.T) {
	client := newFakeClient("mysql")
	client.result = fakeResult{affected: 2}
	view := New("letters", client)

	meta, err := view.Delete(context.Background(), "WHERE id > ?", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), meta.AffectedRows)
	assert.Equal(t, "DELETE FROM `letters` WHERE id > ?", client.executed[0].sql)
	assert.Equal(t, []any{3}, client.executed[0].args)
}

func TestExists(t *testing.T) {
	client := newFakeClient("mysql")
	client.rows = &fakeRows{cols: []string{"1"}, data: [][]any{{int64(1)}}}
	view := New("users", client)

	found, err := view.Exists(context.Background(), "WHERE id = ?", 7)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "SELECT 1 FROM `users` WHERE id = ? LIMIT 1", client.executed[0].sql)

	client.rows = &fakeRows{cols: []string{"1"}}
	found, err = view.Exists(context.Background(), "WHERE id = ?", 8)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInsertIfNotExistsSwallowsDuplicateKey(t *testing.T) {
	dup := errors.New("Error 1062: Duplicate entry")
	client := newFakeClient("mysql")
	client.execErr = dup
	client.dupErr = dup
	view := New("users", client)

	meta, err := view.InsertIfNotExists(context.Background(),
		Record{"email": "a@b"}, []string{"email"})
	require.NoError(t, err)
	assert.Equal(t, Meta{}, meta)
	assert.Equal(t, "INSERT IGNORE INTO `users` (`email`) VALUES (?)", client.executed[0].sql)
}

func TestInsertIfNotExistsRepeatedCallsCompileIdentically(t *testing.T) {
	client := newFakeClient("mysql")
	client.result = fakeResult{affected: 1, insertID: 11}
	view := New("users", client)

	first, err := view.InsertIfNotExists(context.Background(),
		Record{"email": "a@b", "name": "x"}, []string{"email"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.AffectedRows)
	assert.Equal(t, int64(11), first.InsertID)

	// the row now exists: the server reports a no-op write
	client.result = fakeResult{affected: 0}
	second, err := view.InsertIfNotExists(context.Background(),
		Record{"email": "a@b", "name": "x"}, []string{"email"})
	require.NoError(t, err)
	assert.Zero(t, second.AffectedRows)

	require.Len(t, client.executed, 2)
	assert.Equal(t, client.executed[0].sql, client.executed[1].sql)
	assert.Equal(t, client.executed[0].args, client.executed[1].args)
}

func TestDriverErrorsPassThroughUnchanged(t *testing.T) {
	boom := errors.New("driver: connection lost")
	client := newFakeClient("mysql")
	client.execErr = boom
	view := New("users", client)

	_, err := view.Update(context.Background(), Record{"name": "x"})
	assert.Same(t, boom, err)

	client.queryErr = boom
	_, err = view.Select(context.Background(), nil)
	assert.Same(t, boom, err)
}

func TestUsageErrorsFailBeforeExecution(t *testing.T) {
	client := newFakeClient("mysql")
	view := New("users", client)

	_, err := view.Select(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBadArgument)
	assert.Empty(t, client.executed)
}

func TestTransactingDerivesWithoutMutating(t *testing.T) {
	client := newFakeClient("mysql")
	view := New("users", client)
	conn := &fakeConn{client: client}

	bound := view.Transacting(conn)

	assert.False(t, view.Bound())
	assert.True(t, bound.Bound())
	assert.Equal(t, view.Name, bound.Name)

	_, err := bound.Insert(context.Background(), Record{"email": "a@b"})
	require.NoError(t, err)
	_, err = view.Insert(context.Background(), Record{"email": "c@d"})
	require.NoError(t, err)

	// bound statements ran on the reserved connection, unbound on the pool
	require.Len(t, conn.executed, 1)
	require.Len(t, client.executed, 1)
	assert.Equal(t, []any{"a@b"}, conn.executed[0].args)
	assert.Equal(t, []any{"c@d"}, client.executed[0].args)
}

func TestQueryRoutesByStatementKind(t *testing.T) {
	client := newFakeClient("mysql")
	client.rows = &fakeRows{cols: []string{"n"}, data: [][]any{{int64(9)}}}
	client.result = fakeResult{affected: 3}
	view := New("users", client)

	res, err := view.Query(context.Background(), "SELECT COUNT(*) AS n FROM users")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(9), res.Rows[0]["n"])

	res, err = view.Query(context.Background(), "DELETE FROM users WHERE id = ?", 1)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, int64(3), res.Meta.AffectedRows)
}
