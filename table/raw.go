package table

// Raw marks literal SQL text that the compiler splices verbatim instead of
// turning into an escaped parameter. It cannot be created from a plain
// string by accident — only via NewRaw().
type Raw struct {
	sql string // unexported → cannot bypass the explicit constructor
}

func NewRaw(sql string) Raw {
	return Raw{sql: sql}
}

// SQL returns the literal text.
func (r Raw) SQL() string { return r.sql }
