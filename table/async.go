package table

import "context"

func (t *Table) SelectAsync(ctx context.Context, projection any, clauseAndValues ...any) *Deferred[RowSet] {
	return deferredOf(func() (RowSet, error) {
		return t.Select(ctx, projection, clauseAndValues...)
	})
}

func (t *Table) InsertAsync(ctx context.Context, data any, extra ...any) *Deferred[Meta] {
	return deferredOf(func() (Meta, error) {
		return t.Insert(ctx, data, extra...)
	})
}

func (t *Table) InsertIfNotExistsAsync(ctx context.Context, data Record, keyColumns []string) *Deferred[Meta] {
	return deferredOf(func() (Meta, error) {
		return t.InsertIfNotExists(ctx, data, keyColumns)
	})
}

func (t *Table) UpdateAsync(ctx context.Context, data any, extra ...any) *Deferred[Meta] {
	return deferredOf(func() (Meta, error) {
		return t.Update(ctx, data, extra...)
	})
}

func (t *Table) DeleteAsync(ctx context.Context, clauseAndValues ...any) *Deferred[Meta] {
	return deferredOf(func() (Meta, error) {
		return t.Delete(ctx, clauseAndValues...)
	})
}

func (t *Table) ExistsAsync(ctx context.Context, clause string, values ...any) *Deferred[bool] {
	return deferredOf(func() (bool, error) {
		return t.Exists(ctx, clause, values...)
	})
}

func (t *Table) QueryAsync(ctx context.Context, sqlText string, values ...any) *Deferred[*QueryResult] {
	return deferredOf(func() (*QueryResult, error) {
		return t.Query(ctx, sqlText, values...)
	})
}
