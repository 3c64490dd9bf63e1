package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwright/teleflow/flow"
)

// ContractStore is the surface the shared store contract exercises. All
// bundled stores satisfy it.
type ContractStore interface {
	flow.Store
	Delete(ctx context.Context, userID int64) error
}

// RunStoreContract verifies a store implementation against the behavior the
// dispatcher depends on. The store must be empty for the profile it uses.
func RunStoreContract(t *testing.T, store ContractStore, start string) {
	t.Helper()
	ctx := context.Background()
	profile := flow.Profile{
		ID:        4242,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Name:      "Ada Lovelace",
		Username:  "ada",
	}

	t.Run("first contact creates record", func(t *testing.T) {
		u, err := store.Load(ctx, profile)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, profile.ID, u.ID)
		assert.Equal(t, start, u.State)
		assert.Equal(t, profile.FirstName, u.FirstName)
		assert.Equal(t, profile.LastName, u.LastName)
		assert.Equal(t, profile.Name, u.Name)
		assert.Equal(t, profile.Username, u.Username)
		assert.NotZero(t, u.CreatedAt)
	})

	t.Run("save then load round-trips state", func(t *testing.T) {
		u, err := store.Load(ctx, profile)
		require.NoError(t, err)
		u.State = "await_photo"
		require.NoError(t, store.Save(ctx, u))

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "await_photo", loaded.State)
	})

	t.Run("load does not reset existing records", func(t *testing.T) {
		changed := profile
		changed.Username = "ada_new"
		loaded, err := store.Load(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "await_photo", loaded.State)
		assert.Equal(t, "ada", loaded.Username)
	})

	t.Run("loaded record is a private copy", func(t *testing.T) {
		u, err := store.Load(ctx, profile)
		require.NoError(t, err)
		u.State = "scratch"

		loaded, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "await_photo", loaded.State)
	})

	t.Run("delete then load starts over", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, profile.ID))
		u, err := store.Load(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, start, u.State)
	})
}
