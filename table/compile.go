package table

import (
	"fmt"
	"strings"

	"github.com/zeptools/db-core/sqldb"
)

// compiler normalizes one operation's loosely-shaped arguments into a
// single parameterized statement. Pure string assembly, no I/O.
type compiler struct {
	d    sqldb.Dialect
	buf  strings.Builder
	args []any
}

func newCompiler(d sqldb.Dialect) *compiler {
	return &compiler{d: d}
}

func (c *compiler) stmt() Stmt {
	return Stmt{SQL: c.d.Finalize(c.buf.String()), Args: c.args, dialect: c.d}
}

func (c *compiler) ident(name string) error {
	quoted, err := c.d.QuoteIdent(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadArgument, err)
	}
	c.buf.WriteString(quoted)
	return nil
}

func (c *compiler) identList(names []string) error {
	for i, name := range names {
		if i > 0 {
			c.buf.WriteString(", ")
		}
		if err := c.ident(name); err != nil {
			return err
		}
	}
	return nil
}

// value emits one data value: Raw is spliced verbatim, everything else
// becomes a placeholder plus an ordered parameter.
func (c *compiler) value(v any) {
	if raw, ok := v.(Raw); ok {
		c.buf.WriteString(raw.SQL())
		return
	}
	c.buf.WriteByte('?')
	c.args = append(c.args, v)
}

// fragment appends a raw clause fragment, substituting '?' scalar and '??'
// identifier placeholders from values. Only fragment text is scanned for
// placeholders — data values never are.
func (c *compiler) fragment(frag string, values []any) error {
	vi := 0
	next := func() (any, error) {
		if vi >= len(values) {
			return nil, fmt.Errorf("%w: not enough substitution values for %q", ErrBadArgument, frag)
		}
		v := values[vi]
		vi++
		return v, nil
	}
	i := 0
	for i < len(frag) {
		ch := frag[i]
		if ch != '?' {
			c.buf.WriteByte(ch)
			i++
			continue
		}
		if i+1 < len(frag) && frag[i+1] == '?' {
			v, err := next()
			if err != nil {
				return err
			}
			if err := c.identValue(v); err != nil {
				return err
			}
			i += 2
			continue
		}
		v, err := next()
		if err != nil {
			return err
		}
		c.value(v)
		i++
	}
	if vi < len(values) {
		return fmt.Errorf("%w: %d unused substitution values for %q", ErrBadArgument, len(values)-vi, frag)
	}
	return nil
}

// identValue resolves one '??' identifier placeholder.
func (c *compiler) identValue(v any) error {
	switch id := v.(type) {
	case string:
		return c.ident(id)
	case []string:
		return c.identList(id)
	case sqldb.Column:
		return c.ident(id.Name())
	default:
		return fmt.Errorf("%w: identifier placeholder needs string, []string or sqldb.Column, got %T", ErrBadArgument, v)
	}
}

// projection emits a column selection: a literal projection string is taken
// verbatim (expressions, aliases, aggregates), a sequence of names is
// quoted per identifier. A sequence is never mistaken for a fragment.
func (c *compiler) projection(p any) error {
	switch v := p.(type) {
	case nil:
		c.buf.WriteByte('*')
	case string:
		if v == "" {
			c.buf.WriteByte('*')
		} else {
			c.buf.WriteString(v)
		}
	case []string:
		if len(v) == 0 {
			c.buf.WriteByte('*')
			return nil
		}
		return c.identList(v)
	case []sqldb.Column:
		for i, col := range v {
			if i > 0 {
				c.buf.WriteString(", ")
			}
			if err := c.ident(col.Name()); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: projection must be string or []string, got %T", ErrBadArgument, p)
	}
	return nil
}

// recordValues emits "(cols) VALUES (vals)" for one record, columns in
// sorted order so the compiled text is deterministic.
func (c *compiler) recordValues(rec Record) error {
	if len(rec) == 0 {
		return fmt.Errorf("%w: empty record", ErrBadArgument)
	}
	cols := rec.sortedColumns()
	c.buf.WriteByte('(')
	if err := c.identList(cols); err != nil {
		return err
	}
	c.buf.WriteString(") VALUES (")
	for i, col := range cols {
		if i > 0 {
			c.buf.WriteString(", ")
		}
		c.value(rec[col])
	}
	c.buf.WriteByte(')')
	return nil
}

func (c *compiler) bulkValues(b Bulk) error {
	if len(b.Columns) == 0 || len(b.Rows) == 0 {
		return fmt.Errorf("%w: bulk insert needs columns and rows", ErrBadArgument)
	}
	c.buf.WriteByte('(')
	if err := c.identList(b.Columns); err != nil {
		return err
	}
	c.buf.WriteString(") VALUES ")
	for ri, row := range b.Rows {
		if len(row) != len(b.Columns) {
			return fmt.Errorf("%w: bulk row %d has %d values for %d columns",
				ErrBadArgument, ri, len(row), len(b.Columns))
		}
		if ri > 0 {
			c.buf.WriteString(", ")
		}
		c.buf.WriteByte('(')
		for i, v := range row {
			if i > 0 {
				c.buf.WriteString(", ")
			}
			c.value(v)
		}
		c.buf.WriteByte(')')
	}
	return nil
}

func (c *compiler) trailingClause(t tailArgs) error {
	if t.clause == "" {
		return nil
	}
	c.buf.WriteByte(' ')
	return c.fragment(t.clause, t.clauseValues)
}

func compileSelect(d sqldb.Dialect, table string, projection any, tail []any) (Stmt, error) {
	t, err := splitClauseTail(tail)
	if err != nil {
		return Stmt{}, err
	}
	c := newCompiler(d)
	c.buf.WriteString("SELECT ")
	if err := c.projection(projection); err != nil {
		return Stmt{}, err
	}
	c.buf.WriteString(" FROM ")
	if err := c.ident(table); err != nil {
		return Stmt{}, err
	}
	if err := c.trailingClause(t); err != nil {
		return Stmt{}, err
	}
	return c.stmt(), nil
}

func compileExists(d sqldb.Dialect, table string, clause string, values []any) (Stmt, error) {
	c := newCompiler(d)
	c.buf.WriteString("SELECT 1 FROM ")
	if err := c.ident(table); err != nil {
		return Stmt{}, err
	}
	if clause != "" {
		c.buf.WriteByte(' ')
		if err := c.fragment(clause, values); err != nil {
			return Stmt{}, err
		}
	}
	c.buf.WriteString(" LIMIT 1")
	return c.stmt(), nil
}

func compileInsert(d sqldb.Dialect, table string, data any, tail []any) (Stmt, error) {
	c := newCompiler(d)
	c.buf.WriteString("INSERT INTO ")
	if err := c.ident(table); err != nil {
		return Stmt{}, err
	}
	c.buf.WriteByte(' ')
	var t tailArgs
	switch v := data.(type) {
	case string:
		// raw fragment after the mandatory keywords, e.g. "(a, b) VALUES (?, ?)"
		t = splitTail(tail)
		if err := c.fragment(v, t.values); err != nil {
			return Stmt{}, err
		}
	case Record:
		var err error
		if t, err = splitClauseTail(tail); err != nil {
			return Stmt{}, err
		}
		if err := c.recordValues(v); err != nil {
			return Stmt{}, err
		}
	case Bulk:
		var err error
		if t, err = splitClauseTail(tail); err != nil {
			return Stmt{}, err
		}
		if err := c.bulkValues(v); err != nil {
			return Stmt{}, err
		}
	default:
		return Stmt{}, fmt.Errorf("%w: insert data must be Record, Bulk or fragment string, got %T", ErrBadArgument, data)
	}
	if err := c.trailingClause(t); err != nil {
		return Stmt{}, err
	}
	return c.stmt(), nil
}

// compileInsertIfNotExists builds the store-atomic conditional insert: a
// no-op write when a row already matches on the key columns, a normal
// insert otherwise. Atomicity comes from the server's own conditional
// insert form, so racing callers resolve to exactly one winner.
func compileInsertIfNotExists(d sqldb.Dialect, table string, data Record, keyColumns []string) (Stmt, error) {
	if len(keyColumns) == 0 {
		return Stmt{}, fmt.Errorf("%w: insertIfNotExists needs key columns", ErrBadArgument)
	}
	for _, key := range keyColumns {
		if _, ok := data[key]; !ok {
			return Stmt{}, fmt.Errorf("%w: key column %q missing from data", ErrBadArgument, key)
		}
	}
	c := newCompiler(d)
	switch {
	case d.InsertIgnore:
		// relies on a unique key over the key columns
		c.buf.WriteString("INSERT IGNORE INTO ")
	case d.InsertOnConflict:
		c.buf.WriteString("INSERT INTO ")
	default:
		return Stmt{}, fmt.Errorf("%w: dialect %s has no conditional insert form", ErrBadArgument, d.Type)
	}
	if err := c.ident(table); err != nil {
		return Stmt{}, err
	}
	c.buf.WriteByte(' ')
	if err := c.recordValues(data); err != nil {
		return Stmt{}, err
	}
	if d.InsertOnConflict {
		c.buf.WriteString(" ON CONFLICT (")
		if err := c.identList(keyColumns); err != nil {
			return Stmt{}, err
		}
		c.buf.WriteString(") DO NOTHING")
	}
	return c.stmt(), nil
}

func compileUpdate(d sqldb.Dialect, table string, data any, tail []any) (Stmt, error) {
	c := newCompiler(d)
	c.buf.WriteString("UPDATE ")
	if err := c.ident(table); err != nil {
		return Stmt{}, err
	}
	c.buf.WriteByte(' ')
	var t tailArgs
	switch v := data.(type) {
	case string:
		// raw fragment including the SET keyword, e.g. "SET hits = hits + 1"
		t = splitTail(tail)
		if err := c.fragment(v, t.values); err != nil {
			return Stmt{}, err
		}
	case Record:
		var err error
		if t, err = splitClauseTail(tail); err != nil {
			return Stmt{}, err
		}
		if len(v) == 0 {
			return Stmt{}, fmt.Errorf("%w: empty record", ErrBadArgument)
		}
		c.buf.WriteString("SET ")
		for i, col := range v.sortedColumns() {
			if i > 0 {
				c.buf.WriteString(", ")
			}
			if err := c.ident(col); err != nil {
				return Stmt{}, err
			}
			c.buf.WriteString(" = ")
			c.value(v[col])
		}
	default:
		return Stmt{}, fmt.Errorf("%w: update data must be Record or fragment string, got %T", ErrBadArgument, data)
	}
	if err := c.trailingClause(t); err != nil {
		return Stmt{}, err
	}
	return c.stmt(), nil
}

func compileDelete(d sqldb.Dialect, table string, tail []any) (Stmt, error) {
	t, err := splitClauseTail(tail)
	if err != nil {
		return Stmt{}, err
	}
	c := newCompiler(d)
	c.buf.WriteString("DELETE FROM ")
	if err := c.ident(table); err != nil {
		return Stmt{}, err
	}
	if err := c.trailingClause(t); err != nil {
		return Stmt{}, err
	}
	return c.stmt(), nil
}
