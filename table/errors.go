package table

import "errors"

// Usage errors: caller mistakes detected before any statement is issued.
// Check with errors.Is. Driver errors are never wrapped or translated —
// they pass through exactly as the driver returned them.
var (
	// ErrBadArgument - the operation arguments do not resolve to any
	// supported shape.
	ErrBadArgument = errors.New("table: unresolvable argument shape")

	// ErrNestedTx - a unit of work was started on a view that is already
	// bound to an active transaction.
	ErrNestedTx = errors.New("table: view already bound to a transaction")

	// ErrTxDone - commit or rollback on a transaction that already reached
	// a terminal state.
	ErrTxDone = errors.New("table: transaction already completed")
)
