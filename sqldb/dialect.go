package sqldb

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect describes the SQL surface of one database type: identifier
// quoting, placeholder numbering, value-literal escaping and the
// conditional-insert form the server supports.
type Dialect struct {
	Type              string
	PlaceholderPrefix byte // '?' means anonymous placeholders, otherwise numbered ($1, @1, :1)
	IdentQuote        byte
	InsertIgnore      bool // INSERT IGNORE INTO ...
	InsertOnConflict  bool // INSERT ... ON CONFLICT (...) DO NOTHING
	ReturningInsertID bool // auto-increment id must be read back via RETURNING
}

var dialects = map[string]Dialect{
	"mysql": {
		Type:              "mysql",
		PlaceholderPrefix: '?',
		IdentQuote:        '`',
		InsertIgnore:      true,
	},
	"pgsql": {
		Type:              "pgsql",
		PlaceholderPrefix: '$',
		IdentQuote:        '"',
		InsertOnConflict:  true,
		ReturningInsertID: true,
	},
}

func DialectFor(dbType string) (Dialect, error) {
	d, ok := dialects[dbType]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database type: %s", dbType)
	}
	return d, nil
}

// QuoteIdent quotes a possibly dotted identifier path (e.g. "user.email").
// The name is validated first, so a quoted identifier can never smuggle in
// other SQL.
func (d Dialect) QuoteIdent(name string) (string, error) {
	if !regexIdentifier.MatchString(name) {
		return "", fmt.Errorf("invalid SQL identifier: %q", name)
	}
	q := string(d.IdentQuote)
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = q + part + q
	}
	return strings.Join(parts, "."), nil
}

// EscapeValue renders v as an SQL literal. Statement execution always goes
// through driver placeholders; this exists for interpolated logging output.
func (d Dialect) EscapeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return d.escapeString(val)
	case []byte:
		return d.escapeString(string(val))
	case time.Time:
		return d.escapeString(val.Format("2006-01-02 15:04:05"))
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return "NULL"
		}
		return d.EscapeValue(dv)
	default:
		return d.escapeString(fmt.Sprint(val))
	}
}

func (d Dialect) escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			if d.Type == "mysql" {
				b.WriteString(`\\`)
			} else {
				b.WriteRune(r)
			}
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Finalize rewrites anonymous '?' placeholders to the dialect's numbered
// form. No-op for dialects using '?' natively.
func (d Dialect) Finalize(sql string) string {
	prefix := d.PlaceholderPrefix
	if prefix == '?' || prefix == 0 {
		return sql
	}
	var builder strings.Builder
	builder.Grow(len(sql) + 8)
	cnt := 1
	i := 0
	for i < len(sql) {
		if sql[i] == '?' {
			// Do Not Touch Dynamic Placeholders '??'
			if i+1 < len(sql) && sql[i+1] == '?' {
				builder.WriteByte('?')
				builder.WriteByte('?')
				i += 2
				continue
			}
			builder.WriteByte(prefix)
			builder.WriteString(strconv.Itoa(cnt))
			cnt++
		} else {
			builder.WriteByte(sql[i])
		}
		i++
	}
	return builder.String()
}
