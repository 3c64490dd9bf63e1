package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwright/teleflow/flow"
	"github.com/botwright/teleflow/users"
)

func TestMemoryStoreContract(t *testing.T) {
	store := users.NewMemoryStore()
	users.RunStoreContract(t, store, flow.StateStart)
}

func TestMemoryStoreCustomStartState(t *testing.T) {
	store := users.NewMemoryStore(users.WithStartState("start"))
	u, err := store.Load(context.Background(), flow.Profile{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, "start", u.State)
}

func TestMemoryStoreLen(t *testing.T) {
	ctx := context.Background()
	store := users.NewMemoryStore()
	_, err := store.Load(ctx, flow.Profile{ID: 1})
	require.NoError(t, err)
	_, err = store.Load(ctx, flow.Profile{ID: 2})
	require.NoError(t, err)
	_, err = store.Load(ctx, flow.Profile{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}
