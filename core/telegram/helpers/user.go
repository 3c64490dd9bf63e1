package helpers

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/botwright/teleflow/flow"
)

// ProfileFrom extracts the sender identity of an update as a flow.Profile,
// the shape the user store seeds first-contact records from. Name composes
// the first and last name the way chat clients display them.
func ProfileFrom(c tele.Context) flow.Profile {
	user := c.Sender()
	if user == nil {
		return flow.Profile{}
	}
	return flow.Profile{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      DisplayName(user),
		Username:  user.Username,
	}
}

// DisplayName renders a user the way chat clients do: "First Last", falling
// back to the username when both name fields are empty.
func DisplayName(user *tele.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		name = user.Username
	}
	return name
}

// CurrentUser resolves a Telegram user ID to a domain entity via a service
// that implements GetUserByTelegramID. Bots carrying a richer user model than
// the engine's flow.User record can plug their own type here.
func CurrentUser[T any](
	ctx context.Context,
	service interface {
		GetUserByTelegramID(context.Context, int64) (T, error)
	},
	tgID int64,
) (T, error) {
	var zero T
	if service == nil {
		return zero, nil
	}
	return service.GetUserByTelegramID(ctx, tgID)
}
