// Package router wires Telegram update endpoints to the dispatch engine and
// the command/callback registry. Registered commands get dedicated routes;
// every other update is translated into an engine event and dispatched
// against the user's current state.
package router

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/botwright/teleflow/core/telegram"
	"github.com/botwright/teleflow/core/telegram/helpers"
	"github.com/botwright/teleflow/core/telegram/middleware"
	"github.com/botwright/teleflow/flow"
)

// Engine is the minimal dispatch surface the routes need.
// *flow.Dispatcher satisfies it.
type Engine interface {
	Dispatch(ctx context.Context, ev flow.Event, rep flow.Replier) error
}

// FlowOptions controls fallback behaviour for updates the engine does not handle.
type FlowOptions struct {
	// UnknownText runs for text updates when no engine is configured and the
	// registry carries no text fallback.
	UnknownText tele.HandlerFunc
}

func dispatchUpdate(c tele.Context, eng Engine) error {
	ev := telegram.EventFrom(c)
	return eng.Dispatch(helpers.BuildContext(c), ev, telegram.ReplierFor(c))
}

// FlowRoutes builds handlers for text, photo, and location updates. Text is
// first checked against registered commands and aliases; everything else goes
// to the engine, which resolves it against the user's state.
func FlowRoutes(eng Engine, reg *telegram.Registry, opts FlowOptions) []telegram.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if eng != nil {
			return handleWithSummary(c, "flow", start, "", "", func() error {
				return dispatchUpdate(c, eng)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	photoHandler := func(c tele.Context) error {
		start := time.Now()
		if eng == nil {
			logHandlerSummary(c, "photo", start, "skip", "ok", nil)
			return nil
		}
		return handleWithSummary(c, "flow_photo", start, "", "", func() error {
			return dispatchUpdate(c, eng)
		})
	}

	locationHandler := func(c tele.Context) error {
		start := time.Now()
		if eng == nil {
			logHandlerSummary(c, "location", start, "skip", "ok", nil)
			return nil
		}
		return handleWithSummary(c, "flow_location", start, "", "", func() error {
			return dispatchUpdate(c, eng)
		})
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}

	return []telegram.Route{
		{Endpoint: tele.OnText, Handler: wrap(textHandler)},
		{Endpoint: tele.OnPhoto, Handler: wrap(photoHandler)},
		{Endpoint: tele.OnLocation, Handler: wrap(locationHandler)},
	}
}
