package telegram

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/botwright/teleflow/core/config"
	"github.com/botwright/teleflow/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain for bots: panic
// recovery, update accounting, rate limiting, per-update logging context, and
// reply counters. rec and onLimited may be nil.
func DefaultMiddlewares(cfg *coreconfig.Config, rec middleware.UpdateRecorder, onLimited tele.HandlerFunc) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if rec != nil {
		mws = append(mws, Middleware{
			Name: "update_count",
			Use:  middleware.CountUpdates(rec),
		})
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, t := range cfg.RateLimit.ExcludeUpdates {
				ex[strings.ToLower(t)] = struct{}{}
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
					Interval:  interval,
					Exclude:   ex,
					OnLimited: onLimited,
				}),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}
