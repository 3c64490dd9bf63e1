package users

import (
	"context"
	"time"

	"log/slog"

	"github.com/botwright/teleflow/core/logger"
	"github.com/botwright/teleflow/flow"
)

// newRecord builds the record persisted on first contact. The profile is
// copied verbatim; only the state is synthesized.
func newRecord(p flow.Profile, start string) *flow.User {
	return &flow.User{
		ID:        p.ID,
		State:     start,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Name:      p.Name,
		Username:  p.Username,
		CreatedAt: time.Now().Unix(),
	}
}

func logCreate(ctx context.Context, backend string, u *flow.User) {
	logger.Debug(ctx, "store", "user.create",
		slog.String("backend", backend),
		slog.Int64("user_id", u.ID),
		slog.String("state", u.State),
	)
}
