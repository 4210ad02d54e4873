package table

import (
	"github.com/zeptools/db-core/sqldb"
)

// Row is one result record keyed by column name.
type Row map[string]any

// RowSet is the ordered result of a read operation.
type RowSet []Row

// Meta is the mutation metadata for write operations.
type Meta struct {
	AffectedRows int64 `json:"affected_rows"`
	ChangedRows  int64 `json:"changed_rows"`
	InsertID     int64 `json:"insert_id,omitempty"`
}

// collectRows drains rows into a RowSet and closes them. Driver errors
// pass through unchanged.
func collectRows(rows sqldb.Rows) (RowSet, error) {
	defer func() { _ = rows.Close() }()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var set RowSet
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(Row, len(cols))
		for i, col := range cols {
			record[col] = normalizeValue(vals[i])
		}
		set = append(set, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// normalizeValue - text columns arrive as []byte from database/sql
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// metaFromResult converts driver result metadata. The insert id is only
// meaningful for insert statements; drivers without it report zero.
func metaFromResult(res sqldb.Result, wantInsertID bool) (Meta, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return Meta{}, err
	}
	m := Meta{AffectedRows: n, ChangedRows: n}
	if wantInsertID {
		if id, err := res.LastInsertId(); err == nil {
			m.InsertID = id
		}
	}
	return m, nil
}
