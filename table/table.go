package table

import (
	"context"
	"strings"

	"github.com/zeptools/db-core/sqldb"
)

// Table is an immutable view over one named table: name + pool client +
// optionally a reserved connection. When a connection is bound, every
// operation issued through this view runs exclusively on it; otherwise
// each operation may use any pooled connection.
type Table struct {
	Name string

	client sqldb.Client
	conn   sqldb.Conn
}

func New(name string, client sqldb.Client) *Table {
	return &Table{Name: name, client: client}
}

// Transacting derives a new view bound to conn. The receiver is not
// modified and remains usable independently.
func (t *Table) Transacting(conn sqldb.Conn) *Table {
	bound := *t
	bound.conn = conn
	return &bound
}

// Bound reports whether this view is bound to a reserved connection.
func (t *Table) Bound() bool { return t.conn != nil }

// Client returns the shared pool client this view was built on.
func (t *Table) Client() sqldb.Client { return t.client }

func (t *Table) handle() sqldb.Handle {
	if t.conn != nil {
		return t.conn
	}
	return t.client
}

// Select compiles and runs a SELECT. projection is a literal projection
// string or a []string of column names; clauseAndValues is an optional
// clause fragment followed by its substitution values.
func (t *Table) Select(ctx context.Context, projection any, clauseAndValues ...any) (RowSet, error) {
	stmt, err := compileSelect(t.client.Dialect(), t.Name, projection, clauseAndValues)
	if err != nil {
		return nil, err
	}
	rows, err := t.handle().QueryRows(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

// Insert compiles and runs an INSERT. data is a Record, a Bulk, or a raw
// fragment string; extra carries substitution values and an optional
// trailing clause such as "ON DUPLICATE KEY UPDATE ...".
func (t *Table) Insert(ctx context.Context, data any, extra ...any) (Meta, error) {
	stmt, err := compileInsert(t.client.Dialect(), t.Name, data, extra)
	if err != nil {
		return Meta{}, err
	}
	res, err := t.handle().InsertStmt(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return Meta{}, err
	}
	return metaFromResult(res, true)
}

// InsertIfNotExists inserts data unless a row already matches on the key
// columns. The no-op outcome reports zero affected rows; the insert
// outcome reports one plus the generated id. Racing callers on the same
// key resolve to exactly one winner and none of them sees a duplicate-key
// error.
func (t *Table) InsertIfNotExists(ctx context.Context, data Record, keyColumns []string) (Meta, error) {
	stmt, err := compileInsertIfNotExists(t.client.Dialect(), t.Name, data, keyColumns)
	if err != nil {
		return Meta{}, err
	}
	res, err := t.handle().InsertStmt(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		// safety net for servers racing ahead of the conditional form
		if t.client.IsDuplicateKey(err) {
			return Meta{}, nil
		}
		return Meta{}, err
	}
	return metaFromResult(res, true)
}

// Update compiles and runs an UPDATE. data is a Record or a raw fragment
// string including the SET keyword. With no clause it touches every row.
func (t *Table) Update(ctx context.Context, data any, extra ...any) (Meta, error) {
	stmt, err := compileUpdate(t.client.Dialect(), t.Name, data, extra)
	if err != nil {
		return Meta{}, err
	}
	res, err := t.handle().Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return Meta{}, err
	}
	return metaFromResult(res, false)
}

// Delete compiles and runs a DELETE. With no clause it removes every row.
func (t *Table) Delete(ctx context.Context, clauseAndValues ...any) (Meta, error) {
	stmt, err := compileDelete(t.client.Dialect(), t.Name, clauseAndValues)
	if err != nil {
		return Meta{}, err
	}
	res, err := t.handle().Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return Meta{}, err
	}
	return metaFromResult(res, false)
}

// Exists runs a bounded existence probe and reports whether at least one
// row matched. No rows are returned to the caller.
func (t *Table) Exists(ctx context.Context, clause string, values ...any) (bool, error) {
	stmt, err := compileExists(t.client.Dialect(), t.Name, clause, values)
	if err != nil {
		return false, err
	}
	rows, err := t.handle().QueryRows(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}
	return found, nil
}

// QueryResult is the outcome of a raw statement: row-producing statements
// fill Rows, everything else fills Meta.
type QueryResult struct {
	Rows RowSet
	Meta Meta
}

// Query executes a pre-built statement without going through the compiler —
// the escape hatch for callers needing full control.
func (t *Table) Query(ctx context.Context, sqlText string, values ...any) (*QueryResult, error) {
	if producesRows(sqlText) {
		rows, err := t.handle().QueryRows(ctx, sqlText, values...)
		if err != nil {
			return nil, err
		}
		set, err := collectRows(rows)
		if err != nil {
			return nil, err
		}
		return &QueryResult{Rows: set}, nil
	}
	res, err := t.handle().Exec(ctx, sqlText, values...)
	if err != nil {
		return nil, err
	}
	meta, err := metaFromResult(res, false)
	if err != nil {
		return nil, err
	}
	return &QueryResult{Meta: meta}, nil
}

var rowProducingPrefixes = []string{"SELECT", "SHOW", "DESCRIBE", "EXPLAIN", "WITH"}

func producesRows(sqlText string) bool {
	upper := strings.ToUpper(strings.TrimSpace(sqlText))
	for _, prefix := range rowProducingPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}
