package table

import (
	"fmt"
	"sort"
	"strings"
)

// Record maps column names to values for insert and update data.
// Values are always passed as escaped parameters — a literal '?' inside a
// value is data, never a placeholder. Use Raw to splice literal SQL.
type Record map[string]any

// Bulk is the bulk-insert shape: one shared column list plus one values
// slice per row.
type Bulk struct {
	Columns []string
	Rows    [][]any
}

func (r Record) sortedColumns() []string {
	cols := make([]string, 0, len(r))
	for col := range r {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// tailArgs is the resolved form of an operation's trailing arguments:
// leading substitution values, then at most one clause fragment with its
// own substitution values.
type tailArgs struct {
	values       []any
	clause       string
	clauseValues []any
}

// clause keywords that mark where values end and a trailing clause begins
var clauseKeywords = []string{
	"WHERE",
	"ON DUPLICATE KEY UPDATE",
	"ON CONFLICT",
	"ORDER BY",
	"GROUP BY",
	"HAVING",
	"LIMIT",
}

func isClauseStart(s string) bool {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, kw := range clauseKeywords {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

// splitTail resolves the trailing arguments of an operation once, up front.
// A string argument starting with a clause keyword begins the clause part;
// everything after it are that clause's substitution values. A single []any
// argument is unwrapped into its elements.
func splitTail(args []any) tailArgs {
	args = unwrapSingleSlice(args)
	for i, a := range args {
		if s, ok := a.(string); ok && isClauseStart(s) {
			return tailArgs{
				values:       args[:i],
				clause:       s,
				clauseValues: unwrapSingleSlice(args[i+1:]),
			}
		}
	}
	return tailArgs{values: args}
}

// splitClauseTail is splitTail for operations whose tail can only be a
// clause: the first argument must be the clause string itself.
func splitClauseTail(args []any) (tailArgs, error) {
	args = unwrapSingleSlice(args)
	if len(args) == 0 {
		return tailArgs{}, nil
	}
	s, ok := args[0].(string)
	if !ok {
		return tailArgs{}, fmt.Errorf("%w: expected clause string, got %T", ErrBadArgument, args[0])
	}
	return tailArgs{clause: s, clauseValues: unwrapSingleSlice(args[1:])}, nil
}

func unwrapSingleSlice(args []any) []any {
	if len(args) == 1 {
		if vs, ok := args[0].([]any); ok {
			return vs
		}
	}
	return args
}
