// Package users persists per-user conversation records across messages.
// It ships three flow.Store implementations: an in-memory map for tests and
// development, a Postgres store over sqlx, and a Redis store with optional
// key expiry. All of them create a record seeded with the start state on
// first contact, so the dispatcher never sees a missing user.
package users
