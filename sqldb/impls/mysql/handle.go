package mysql

import (
	"context"
	"strings"

	"github.com/zeptools/db-core/sqldb"
)

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	result, err := c.db.ExecContext(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func (c *Client) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	// NOTE: We can process a DBMS-specific error to produce a better abstracted error
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (c *Client) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	row := c.db.QueryRowContext(ctx, query, args...)
	return &Row{row: row}
}

func (c *Client) InsertStmt(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if err := checkInsertStmt(query); err != nil {
		return nil, err
	}
	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{result: result}, nil
}

func checkInsertStmt(query string) error {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "INSERT") {
		return errNotInsert
	}
	return nil
}
