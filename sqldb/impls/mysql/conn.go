package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zeptools/db-core/sqldb"
)

var (
	errNotInsert = errors.New("InsertStmt must start with INSERT")
	errNoTx      = errors.New("no transaction started on this connection")
	errTxOpen    = errors.New("transaction already started on this connection")
)

// Conn wraps one checked-out *sql.Conn. Once Begin succeeds, statements are
// routed through the open *sql.Tx until Commit or Rollback.
type Conn struct {
	conn *sql.Conn
	tx   *sql.Tx
}

// Ensure mysql.Conn implements sqldb.Conn interface
var _ sqldb.Conn = (*Conn)(nil)

func (c *Conn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return errTxOpen
	}
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func (c *Conn) Commit(_ context.Context) error {
	if c.tx == nil {
		return errNoTx
	}
	err := c.tx.Commit()
	c.tx = nil
	return err
}

func (c *Conn) Rollback(_ context.Context) error {
	if c.tx == nil {
		return errNoTx
	}
	err := c.tx.Rollback()
	c.tx = nil
	return err
}

func (c *Conn) Release() error {
	return c.conn.Close()
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	var result sql.Result
	var err error
	if c.tx != nil {
		result, err = c.tx.ExecContext(ctx, query, args...)
	} else {
		result, err = c.conn.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (c *Conn) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	var rows *sql.Rows
	var err error
	if c.tx != nil {
		rows, err = c.tx.QueryContext(ctx, query, args...)
	} else {
		rows, err = c.conn.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	if c.tx != nil {
		return &Row{row: c.tx.QueryRowContext(ctx, query, args...)}
	}
	return &Row{row: c.conn.QueryRowContext(ctx, query, args...)}
}

func (c *Conn) InsertStmt(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if err := checkInsertStmt(query); err != nil {
		return nil, err
	}
	return c.Exec(ctx, query, args...)
}
