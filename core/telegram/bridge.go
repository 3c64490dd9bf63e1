package telegram

import (
	"context"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/botwright/teleflow/core/telegram/callbacks"
	tghelpers "github.com/botwright/teleflow/core/telegram/helpers"
	"github.com/botwright/teleflow/flow"
)

// EventFrom derives the transport-agnostic flow event from an update. The
// event kind follows what the update carries: callbacks keep their payload as
// the signal, photos and locations resolve to their reserved sentinel
// triggers, and messages starting with a slash are classified as commands but
// still match trigger patterns by their full text.
func EventFrom(c tele.Context) flow.Event {
	ev := flow.Event{Sender: tghelpers.ProfileFrom(c)}

	if cb := c.Callback(); cb != nil {
		ev.Kind = flow.KindCallback
		ev.Data = callbacks.Signal(cb)
		return ev
	}

	msg := c.Message()
	if msg == nil {
		ev.Kind = flow.KindText
		return ev
	}

	switch {
	case msg.Photo != nil:
		ev.Kind = flow.KindPhoto
		ev.Text = msg.Caption
		ev.Data = msg.Photo.FileID
	case msg.Location != nil:
		ev.Kind = flow.KindLocation
		ev.Data = formatLocation(msg.Location)
	default:
		ev.Kind = flow.KindText
		if strings.HasPrefix(msg.Text, "/") {
			ev.Kind = flow.KindCommand
		}
		ev.Text = msg.Text
	}
	return ev
}

// formatLocation renders coordinates as "lat,lng" so location payloads stay
// plain strings on the event.
func formatLocation(loc *tele.Location) string {
	if loc == nil {
		return ""
	}
	lat := strconv.FormatFloat(float64(loc.Lat), 'f', 6, 32)
	lng := strconv.FormatFloat(float64(loc.Lng), 'f', 6, 32)
	return lat + "," + lng
}

// ParseLocation decodes a "lat,lng" location payload produced by EventFrom.
func ParseLocation(data string) (lat, lng float64, ok bool) {
	head, tail, found := strings.Cut(data, ",")
	if !found {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(head), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(tail), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// teleReplier lends the update's reply capability to a dispatch chain.
// Replies flow through the async sender when one is wired, so a slow
// Telegram API call does not stall the dispatch.
type teleReplier struct {
	c tele.Context
}

// ReplierFor returns the flow reply capability backed by this update's chat.
func ReplierFor(c tele.Context) flow.Replier {
	return teleReplier{c: c}
}

func (r teleReplier) Send(_ context.Context, _ int64, what any, opts ...any) error {
	return tghelpers.Enqueue(r.c, "flow.reply", "sendMessage", func() error {
		return r.c.Send(what, opts...)
	})
}
