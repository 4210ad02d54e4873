package table

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/zeptools/db-core/sqldb"
)

const (
	txActive int32 = iota
	txCommitted
	txRolledBack
)

// Tx owns one reserved connection for the duration of a unit of work. It
// moves exactly once from active to committed or rolled back; either
// transition returns the connection to the pool. A Tx must not be used
// after its terminal state is reached.
type Tx struct {
	conn  sqldb.Conn
	state atomic.Int32
}

// Begin reserves an exclusive connection from the pool (blocking until one
// is available) and starts a transaction on it.
func Begin(ctx context.Context, client sqldb.Client) (*Tx, error) {
	conn, err := client.Reserve(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.Begin(ctx); err != nil {
		if relErr := conn.Release(); relErr != nil {
			log.Printf("[WARN] releasing connection after failed begin: %v", relErr)
		}
		return nil, err
	}
	return &Tx{conn: conn}, nil
}

// Bind derives a view of t routed through this transaction's connection.
func (tx *Tx) Bind(t *Table) *Table {
	return t.Transacting(tx.conn)
}

// Conn exposes the reserved connection.
func (tx *Tx) Conn() sqldb.Conn { return tx.conn }

// Done reports whether the transaction reached a terminal state.
func (tx *Tx) Done() bool { return tx.state.Load() != txActive }

func (tx *Tx) Commit(ctx context.Context) error {
	if !tx.state.CompareAndSwap(txActive, txCommitted) {
		return fmt.Errorf("%w: commit", ErrTxDone)
	}
	err := tx.conn.Commit(ctx)
	tx.release()
	return err
}

func (tx *Tx) Rollback(ctx context.Context) error {
	if !tx.state.CompareAndSwap(txActive, txRolledBack) {
		return fmt.Errorf("%w: rollback", ErrTxDone)
	}
	err := tx.conn.Rollback(ctx)
	tx.release()
	return err
}

// the connection goes back to the pool on either terminal transition
func (tx *Tx) release() {
	if err := tx.conn.Release(); err != nil {
		log.Printf("[WARN] releasing transaction connection: %v", err)
	}
}

// RunInTx runs fn as one unit of work. fn returning an error rolls the
// transaction back and that original error — never the rollback mechanics —
// is what the caller sees; fn returning nil commits, and a commit failure
// supersedes. fn may instead finish the transaction itself via tx.Commit or
// tx.Rollback (manual ack); RunInTx then leaves the outcome alone.
func RunInTx(ctx context.Context, client sqldb.Client, fn func(tx *Tx) error) error {
	tx, err := Begin(ctx, client)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if !tx.Done() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("[WARN] rollback failed: %v", rbErr)
			}
		}
		return err
	}
	if tx.Done() {
		return nil
	}
	return tx.Commit(ctx)
}

// RunTx runs fn with a view of t bound to a fresh transaction. Starting a
// unit of work on an already-bound view is a usage error, detected before
// any statement is issued.
func (t *Table) RunTx(ctx context.Context, fn func(view *Table) error) error {
	if t.conn != nil {
		return fmt.Errorf("%w: %s", ErrNestedTx, t.Name)
	}
	return RunInTx(ctx, t.client, func(tx *Tx) error {
		return fn(tx.Bind(t))
	})
}
