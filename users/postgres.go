package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/botwright/teleflow/flow"
)

// PostgresStore persists user records in the users table. The schema is
// managed by the migrations under users/migrations.
type PostgresStore struct {
	db    *sqlx.DB
	start string
}

// NewPostgresStore wraps an open sqlx handle.
func NewPostgresStore(db *sqlx.DB, opts ...Option) *PostgresStore {
	cfg := newSettings(opts)
	return &PostgresStore{db: db, start: cfg.start}
}

const selectUserSQL = `SELECT id, state, first_name, last_name, name, username, created_at
FROM users WHERE id = $1`

const insertUserSQL = `INSERT INTO users (id, state, first_name, last_name, name, username, created_at)
VALUES (:id, :state, :first_name, :last_name, :name, :username, :created_at)
ON CONFLICT (id) DO NOTHING`

const upsertUserSQL = `INSERT INTO users (id, state, first_name, last_name, name, username, created_at)
VALUES (:id, :state, :first_name, :last_name, :name, :username, :created_at)
ON CONFLICT (id) DO UPDATE SET
	state = EXCLUDED.state,
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	name = EXCLUDED.name,
	username = EXCLUDED.username`

// Load fetches the record for the profile's user, inserting a fresh one
// seeded with the start state on first contact.
func (s *PostgresStore) Load(ctx context.Context, p flow.Profile) (*flow.User, error) {
	var u flow.User
	err := s.db.GetContext(ctx, &u, selectUserSQL, p.ID)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("select user %d: %w", p.ID, err)
	}

	fresh := newRecord(p, s.start)
	if _, err := s.db.NamedExecContext(ctx, insertUserSQL, fresh); err != nil {
		return nil, fmt.Errorf("insert user %d: %w", p.ID, err)
	}
	// A concurrent first contact may have won the conflict; read the winner back.
	if err := s.db.GetContext(ctx, &u, selectUserSQL, p.ID); err != nil {
		return nil, fmt.Errorf("reload user %d: %w", p.ID, err)
	}
	logCreate(ctx, "postgres", &u)
	return &u, nil
}

// Save upserts the record.
func (s *PostgresStore) Save(ctx context.Context, u *flow.User) error {
	if _, err := s.db.NamedExecContext(ctx, upsertUserSQL, u); err != nil {
		return fmt.Errorf("save user %d: %w", u.ID, err)
	}
	return nil
}

// Delete removes the record for a user.
func (s *PostgresStore) Delete(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}
