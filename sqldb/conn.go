package sqldb

import "context"

// Conn is a connection reserved for exclusive use by a single owner,
// typically a transaction. Statements issued through it form one ordered
// statement stream.
type Conn interface {
	Handle

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Release returns the connection to the pool. The Conn must not be used
	// afterwards.
	Release() error
}
