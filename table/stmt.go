package table

import (
	"strings"

	"github.com/zeptools/db-core/sqldb"
)

// Stmt is one compiled statement: the final SQL text plus its ordered
// parameter values. It is built per call and discarded after execution.
type Stmt struct {
	SQL  string
	Args []any

	dialect sqldb.Dialect
}

// String interpolates the parameters into the SQL text for logging.
// Execution always goes through driver placeholders, never through this.
func (s Stmt) String() string {
	if len(s.Args) == 0 {
		return s.SQL
	}
	var b strings.Builder
	b.Grow(len(s.SQL) + 16*len(s.Args))
	ai := 0
	i := 0
	for i < len(s.SQL) {
		ch := s.SQL[i]
		switch {
		case ch == '?':
			if ai < len(s.Args) {
				b.WriteString(s.dialect.EscapeValue(s.Args[ai]))
				ai++
			} else {
				b.WriteByte(ch)
			}
			i++
		case ch == '$' && i+1 < len(s.SQL) && isDigit(s.SQL[i+1]):
			j := i + 1
			n := 0
			for j < len(s.SQL) && isDigit(s.SQL[j]) {
				n = n*10 + int(s.SQL[j]-'0')
				j++
			}
			if n >= 1 && n <= len(s.Args) {
				b.WriteString(s.dialect.EscapeValue(s.Args[n-1]))
			} else {
				b.WriteString(s.SQL[i:j])
			}
			i = j
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
