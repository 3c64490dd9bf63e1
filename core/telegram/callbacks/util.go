// Package callbacks parses Telegram callback payloads into the raw signal
// strings the dispatch engine matches trigger patterns against, plus typed
// payload accessors for transition callbacks.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData returns a callback's unique action key and payload.
// Telebot pre-parses \f<unique>|<payload> button data into Unique and Data
// before handlers run; raw data from buttons built outside Telebot is split
// here, with plain data coming back as unique and an empty payload.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	unique := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return unique, payload
}

// Signal renders a callback as the raw signal string for trigger resolution:
// "<unique>" for bare actions, "<unique>|<payload>" when a payload is
// attached. Chart authors match it with patterns such as `vote\|[0-9]+`.
func Signal(cb *tele.Callback) string {
	unique, payload := ParseCallbackData(cb)
	if payload == "" {
		return unique
	}
	return unique + "|" + payload
}

// CallbackKey returns the unique action key of the update's callback.
func CallbackKey(c tele.Context) string {
	key, _ := ParseCallbackData(c.Callback())
	return key
}

// CallbackPayload returns the payload attached to the update's callback.
func CallbackPayload(c tele.Context) string {
	_, payload := ParseCallbackData(c.Callback())
	return payload
}
