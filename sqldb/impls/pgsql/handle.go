package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/zeptools/db-core/sqldb"
)

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := c.pool.Exec(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (c *Client) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (c *Client) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	row := c.pool.QueryRow(ctx, query, args...)
	return &Row{row: row}
}

// InsertStmt appends `RETURNING id` when missing so the auto-increment id
// can be reported; PostgreSQL has no LastInsertId.
func (c *Client) InsertStmt(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if err := checkInsertStmt(query); err != nil {
		return nil, err
	}
	if !strings.Contains(strings.ToUpper(query), "RETURNING") {
		query += " RETURNING id"
		var id int64
		err := c.pool.QueryRow(ctx, query, args...).Scan(&id)
		if err != nil {
			// ON CONFLICT DO NOTHING inserts returning no row are a no-op, not a failure
			if errors.Is(err, pgx.ErrNoRows) {
				return &Result{}, nil
			}
			return nil, err
		}
		return &Result{lastInsertID: id, affected: 1}, nil
	}
	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func checkInsertStmt(query string) error {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return errNotInsert
	}
	return nil
}
