package sqldb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	my, err := DialectFor("mysql")
	require.NoError(t, err)
	assert.Equal(t, byte('?'), my.PlaceholderPrefix)
	assert.Equal(t, byte('`'), my.IdentQuote)
	assert.True(t, my.InsertIgnore)
	assert.False(t, my.InsertOnConflict)

	pg, err := DialectFor("pgsql")
	require.NoError(t, err)
	assert.Equal(t, byte('$'), pg.PlaceholderPrefix)
	assert.Equal(t, byte('"'), pg.IdentQuote)
	assert.True(t, pg.InsertOnConflict)
	assert.True(t, pg.ReturningInsertID)

	_, err = DialectFor("oracle")
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	my, _ := DialectFor("mysql")
	pg, _ := DialectFor("pgsql")

	q, err := my.QuoteIdent("email")
	require.NoError(t, err)
	assert.Equal(t, "`email`", q)

	q, err = my.QuoteIdent("u.email")
	require.NoError(t, err)
	assert.Equal(t, "`u`.`email`", q)

	q, err = pg.QuoteIdent("email")
	require.NoError(t, err)
	assert.Equal(t, `"email"`, q)

	for _, bad := range []string{"", "user name", "1col", "a;b", "a.", "`x`"} {
		_, err := my.QuoteIdent(bad)
		assert.Error(t, err, "identifier %q", bad)
	}
}

func TestFinalize(t *testing.T) {
	my, _ := DialectFor("mysql")
	pg, _ := DialectFor("pgsql")

	sql := "UPDATE t SET a = ?, b = ? WHERE id = ?"
	assert.Equal(t, sql, my.Finalize(sql))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", pg.Finalize(sql))

	// dynamic identifier placeholders survive untouched
	assert.Equal(t, "SELECT ?? FROM t WHERE id = $1", pg.Finalize("SELECT ?? FROM t WHERE id = ?"))
}

func TestEscapeValue(t *testing.T) {
	my, _ := DialectFor("mysql")
	pg, _ := DialectFor("pgsql")

	assert.Equal(t, "NULL", my.EscapeValue(nil))
	assert.Equal(t, "TRUE", my.EscapeValue(true))
	assert.Equal(t, "FALSE", my.EscapeValue(false))
	assert.Equal(t, "42", my.EscapeValue(42))
	assert.Equal(t, "3.5", my.EscapeValue(3.5))
	assert.Equal(t, "'hello'", my.EscapeValue("hello"))
	assert.Equal(t, "'it''s'", my.EscapeValue("it's"))
	assert.Equal(t, `'a\\b'`, my.EscapeValue(`a\b`))
	assert.Equal(t, `'a\b'`, pg.EscapeValue(`a\b`))

	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "'2024-05-01 09:30:00'", my.EscapeValue(ts))
}

func TestNewColumn(t *testing.T) {
	c, err := NewColumn("created_at")
	require.NoError(t, err)
	assert.Equal(t, "created_at", c.Name())

	_, err = NewColumn("drop table")
	assert.Error(t, err)

	assert.Panics(t, func() { NewColumnOrPanic("bad name") })
}
