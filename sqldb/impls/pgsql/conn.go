package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zeptools/db-core/sqldb"
)

var (
	errNotInsert = errors.New("InsertStmt must start with INSERT")
	errNoTx      = errors.New("no transaction started on this connection")
	errTxOpen    = errors.New("transaction already started on this connection")
)

// Conn wraps one acquired pool connection. Once Begin succeeds, statements
// are routed through the open pgx.Tx until Commit or Rollback.
type Conn struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

// Ensure pgsql.Conn implements sqldb.Conn interface
var _ sqldb.Conn = (*Conn)(nil)

func (c *Conn) Begin(ctx context.Context) error {
	if c.tx != nil {
		return errTxOpen
	}
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

func (c *Conn) Commit(ctx context.Context) error {
	if c.tx == nil {
		return errNoTx
	}
	err := c.tx.Commit(ctx)
	c.tx = nil
	return err
}

func (c *Conn) Rollback(ctx context.Context) error {
	if c.tx == nil {
		return errNoTx
	}
	err := c.tx.Rollback(ctx)
	c.tx = nil
	return err
}

func (c *Conn) Release() error {
	c.conn.Release()
	return nil
}

func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	var tag pgconn.CommandTag
	var err error
	if c.tx != nil {
		tag, err = c.tx.Exec(ctx, query, args...)
	} else {
		tag, err = c.conn.Exec(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (c *Conn) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	var rows pgx.Rows
	var err error
	if c.tx != nil {
		rows, err = c.tx.Query(ctx, query, args...)
	} else {
		rows, err = c.conn.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (c *Conn) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	if c.tx != nil {
		return &Row{row: c.tx.QueryRow(ctx, query, args...)}
	}
	return &Row{row: c.conn.QueryRow(ctx, query, args...)}
}

func (c *Conn) InsertStmt(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if err := checkInsertStmt(query); err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToUpper(query), "RETURNING") {
		query += " RETURNING id"
		var id int64
		err := c.QueryRow(ctx, query, args...).Scan(&id)
		if err != nil {
			// ON CONFLICT DO NOTHING inserts returning no row are a no-op, not a failure
			if errors.Is(err, sqldb.ErrNoRows) {
				return &Result{}, nil
			}
			return nil, err
		}
		return &Result{lastInsertID: id, affected: 1}, nil
	}
	return c.Exec(ctx, query, args...)
}
