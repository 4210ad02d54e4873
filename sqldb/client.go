package sqldb

import (
	"context"
)

// Client is the shared connection-pool facade. Statements executed through
// it may run on any pooled connection.
type Client interface {
	Init() error
	Close() error
	Handle // Methods required for Handle are also required, so, promote it
	GetConf() *Conf
	GetDSN() string
	Dialect() Dialect
	Ping(ctx context.Context) error

	// Reserve takes one connection out of the pool for exclusive use.
	// It blocks until a connection frees up; cancelling ctx while still
	// waiting acquires nothing.
	Reserve(ctx context.Context) (Conn, error)

	// IsDuplicateKey reports whether err is the server's unique/primary key
	// violation for this database type.
	IsDuplicateKey(err error) bool
}
