package pgsql

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zeptools/db-core/sqldb"
)

type Result struct {
	tag          pgconn.CommandTag
	lastInsertID int64 // Auto-increment ID read back via RETURNING
	affected     int64 // set when the statement ran through RETURNING
}

// Ensure pgsql.Result implements sqldb.Result
var _ sqldb.Result = (*Result)(nil)

func (r *Result) RowsAffected() (int64, error) {
	if r.lastInsertID != 0 || r.affected != 0 {
		return r.affected, nil
	}
	return r.tag.RowsAffected(), nil
}

// LastInsertId - PostgreSQL reports the id only via `RETURNING id`.
func (r *Result) LastInsertId() (int64, error) {
	if r.lastInsertID != 0 {
		return r.lastInsertID, nil
	}
	return 0, fmt.Errorf("LastInsertId not supported; use `RETURNING id` instead")
}
