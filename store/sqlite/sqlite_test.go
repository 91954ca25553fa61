package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yearplan/planner-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLatest_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Latest(context.Background())
	assert.ErrorIs(t, err, sqlite.ErrNoSnapshot)
}

func TestSaveAndLatest_NewestWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tok-1", []byte(`{"v":1}`)))
	require.NoError(t, store.Save(ctx, "tok-2", []byte(`{"v":2}`)))
	require.NoError(t, store.Save(ctx, "tok-3", []byte(`{"v":3}`)))

	snap, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-3", snap.Token)
	assert.Equal(t, `{"v":3}`, string(snap.Structural))
}

func TestHistory_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, tok := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, tok, []byte("{}")))
	}

	history, err := store.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Token)
	assert.Equal(t, "b", history[1].Token)
}

func TestPrune_KeepsNewest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, tok := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Save(ctx, tok, []byte("{}")))
	}
	require.NoError(t, store.Prune(ctx, 2))

	history, err := store.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "d", history[0].Token)

	snap, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", snap.Token)
}
