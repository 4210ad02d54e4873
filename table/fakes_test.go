package table

import (
	"context"
	"errors"
	"sync"

	"github.com/zeptools/db-core/sqldb"
)

type executed struct {
	sql  string
	args []any
}

type fakeResult struct {
	affected int64
	insertID int64
}

func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }
func (r fakeResult) LastInsertId() (int64, error) { return r.insertID, nil }

type fakeRows struct {
	cols   []string
	data   [][]any
	idx    int
	closed bool
	err    error
}

var _ sqldb.Rows = (*fakeRows)(nil)

func (r *fakeRows) Next() bool {
	if r.idx < len(r.data) {
		r.idx++
		return true
	}
	return false
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

func (r *fakeRows) Columns() ([]string, error) { return r.cols, nil }
func (r *fakeRows) Close() error               { r.closed = true; return nil }
func (r *fakeRows) Err() error                 { return r.err }

type fakeRow struct{}

func (fakeRow) Scan(...any) error { return sqldb.ErrNoRows }

// fakeClient records everything executed through the pool and hands out
// fakeConns for reservations.
type fakeClient struct {
	mu sync.Mutex

	dialect  sqldb.Dialect
	conf     sqldb.Conf
	executed []executed

	rows       *fakeRows  // next query result
	result     fakeResult // next exec result
	queryErr   error
	execErr    error
	reserveErr error
	dupErr     error // execErr values matching this count as duplicate key

	nextConn *fakeConn // pre-seeded conn for the next reservation
	reserved []*fakeConn
}

var _ sqldb.Client = (*fakeClient)(nil)

func newFakeClient(dbType string) *fakeClient {
	d, err := sqldb.DialectFor(dbType)
	if err != nil {
		panic(err)
	}
	return &fakeClient{dialect: d, conf: sqldb.Conf{Type: dbType}}
}

func (c *fakeClient) Init() error                { return nil }
func (c *fakeClient) Close() error               { return nil }
func (c *fakeClient) GetConf() *sqldb.Conf       { return &c.conf }
func (c *fakeClient) GetDSN() string             { return "fake" }
func (c *fakeClient) Dialect() sqldb.Dialect     { return c.dialect }
func (c *fakeClient) Ping(context.Context) error { return nil }

func (c *fakeClient) record(sql string, args []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executed = append(c.executed, executed{sql: sql, args: args})
}

func (c *fakeClient) Exec(_ context.Context, sql string, args ...any) (sqldb.Result, error) {
	c.record(sql, args)
	if c.execErr != nil {
		return nil, c.execErr
	}
	return c.result, nil
}

func (c *fakeClient) QueryRows(_ context.Context, sql string, args ...any) (sqldb.Rows, error) {
	c.record(sql, args)
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	if c.rows == nil {
		return &fakeRows{}, nil
	}
	return c.rows, nil
}

func (c *fakeClient) QueryRow(_ context.Context, sql string, args ...any) sqldb.Row {
	c.record(sql, args)
	return fakeRow{}
}

func (c *fakeClient) InsertStmt(ctx context.Context, sql string, args ...any) (sqldb.Result, error) {
	return c.Exec(ctx, sql, args...)
}

func (c *fakeClient) Reserve(context.Context) (sqldb.Conn, error) {
	if c.reserveErr != nil {
		return nil, c.reserveErr
	}
	c.mu.Lock()
	conn := c.nextConn
	if conn == nil {
		conn = &fakeConn{client: c}
	}
	c.nextConn = nil
	c.reserved = append(c.reserved, conn)
	c.mu.Unlock()
	return conn, nil
}

func (c *fakeClient) IsDuplicateKey(err error) bool {
	return c.dupErr != nil && errors.Is(err, c.dupErr)
}

// fakeConn records its own statement stream and lifecycle events.
type fakeConn struct {
	client *fakeClient

	executed []executed
	events   []string

	rows        *fakeRows
	result      fakeResult
	execErr     error
	beginErr    error
	commitErr   error
	rollbackErr error
	released    bool
}

var _ sqldb.Conn = (*fakeConn)(nil)

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (sqldb.Result, error) {
	c.executed = append(c.executed, executed{sql: sql, args: args})
	if c.execErr != nil {
		return nil, c.execErr
	}
	return c.result, nil
}

func (c *fakeConn) QueryRows(_ context.Context, sql string, args ...any) (sqldb.Rows, error) {
	c.executed = append(c.executed, executed{sql: sql, args: args})
	if c.rows == nil {
		return &fakeRows{}, nil
	}
	return c.rows, nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...any) sqldb.Row {
	c.executed = append(c.executed, executed{sql: sql, args: args})
	return fakeRow{}
}

func (c *fakeConn) InsertStmt(ctx context.Context, sql string, args ...any) (sqldb.Result, error) {
	return c.Exec(ctx, sql, args...)
}

func (c *fakeConn) Begin(context.Context) error {
	c.events = append(c.events, "begin")
	return c.beginErr
}

func (c *fakeConn) Commit(context.Context) error {
	c.events = append(c.events, "commit")
	return c.commitErr
}

func (c *fakeConn) Rollback(context.Context) error {
	c.events = append(c.events, "rollback")
	return c.rollbackErr
}

func (c *fakeConn) Release() error {
	c.events = append(c.events, "release")
	c.released = true
	return nil
}
