package router

import (
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/botwright/teleflow/core/telegram"
	"github.com/botwright/teleflow/core/telegram/callbacks"
	"github.com/botwright/teleflow/core/telegram/middleware"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks: handlers registered
// by key win, everything else is dispatched as a button-press signal through
// the engine. The registry's not-found fallback only fires when no engine is
// configured.
func CallbackRoute(eng Engine, reg *telegram.Registry, opts CallbackOptions) telegram.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		// Stop the client-side spinner regardless of outcome
		_ = c.Respond()

		if reg != nil {
			if cbHandler, ok := reg.GetCallback(key); ok && cbHandler != nil {
				return handleWithSummary(c, name, start, "", "", func() error {
					return cbHandler(c)
				}, extras...)
			}
		}

		if eng != nil {
			return handleWithSummary(c, name, start, "", "", func() error {
				return dispatchUpdate(c, eng)
			}, extras...)
		}

		var fallback tele.HandlerFunc
		if reg != nil {
			fallback = reg.CallbackNotFound()
		}
		if fallback == nil {
			fallback = opts.NotFound
		}
		extras = append(extras, slog.String("reason", "not_found"))
		return handleWithSummary(c, name, start, "", "", func() error {
			if fallback != nil {
				return fallback(c)
			}
			return nil
		}, extras...)
	}
	return telegram.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
