package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredAwaitDeliversValue(t *testing.T) {
	d := deferredOf(func() (int, error) { return 42, nil })

	got, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	// settled outcome stays available for repeat awaits
	got, err = d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDeferredAwaitDeliversError(t *testing.T) {
	boom := errors.New("lost connection")
	d := deferredOf(func() (*Meta, error) { return nil, boom })

	meta, err := d.Await(context.Background())
	assert.Same(t, boom, err)
	assert.Nil(t, meta)
}

func TestDeferredAwaitHonorsContext(t *testing.T) {
	block := make(chan struct{})
	d := deferredOf(func() (int, error) {
		<-block
		return 1, nil
	})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := d.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, got)
}

func TestDeferredThenRunsAfterSettlement(t *testing.T) {
	d := deferredOf(func() (string, error) { return "ok", nil })

	settled := make(chan struct{})
	var got string
	var gotErr error
	d.Then(func(v string, err error) {
		got, gotErr = v, err
		close(settled)
	})

	select {
	case <-settled:
	case <-time.After(time.Second):
		t.Fatal("continuation never ran")
	}
	require.NoError(t, gotErr)
	assert.Equal(t, "ok", got)
}

func TestSelectAsyncMatchesSelect(t *testing.T) {
	client := newFakeClient("mysql")
	client.rows = &fakeRows{
		cols: []string{"id"},
		data: [][]any{{int64(5)}},
	}
	users := New("users", client)

	rs, err := users.SelectAsync(context.Background(), nil).Await(context.Background())
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, int64(5), rs[0]["id"])
}

func TestInsertAsyncSurfacesUsageError(t *testing.T) {
	client := newFakeClient("mysql")
	users := New("users", client)

	_, err := users.InsertAsync(context.Background(), 3.14).Await(context.Background())
	assert.ErrorIs(t, err, ErrBadArgument)
	assert.Empty(t, client.executed)
}
