package flow

import "context"

// Profile carries the sender identity fields a chat platform attaches to
// every inbound event. It seeds the persisted record on first contact and is
// never written back afterwards.
type Profile struct {
	ID        int64
	FirstName string
	LastName  string
	Name      string
	Username  string
}

// User is the per-user record the engine persists between events: the current
// chart state plus the profile captured when the user was first seen.
type User struct {
	ID        int64  `db:"id" json:"id"`
	State     string `db:"state" json:"state"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Name      string `db:"name" json:"name"`
	Username  string `db:"username" json:"username"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

// Store is the persistence boundary of the engine. Load returns the record
// for the profile's user id, creating and persisting a fresh one seeded with
// StateStart and the profile fields when the id was never seen before.
// Implementations must keep Load followed by Save read-modify-write
// consistent per user id; the dispatcher serializes calls per user, so a
// store only has to be safe for concurrent use across different ids.
type Store interface {
	Load(ctx context.Context, p Profile) (*User, error)
	Save(ctx context.Context, u *User) error
}
