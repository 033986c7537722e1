package middleware

import tele "gopkg.in/telebot.v4"

// AdminChecker answers whether a Telegram user id belongs to an admin.
type AdminChecker func(id int64) bool

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	IsAdmin  AdminChecker
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only admin users can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.IsAdmin != nil && !opts.IsAdmin(c.Sender().ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// MaintenanceOptions control the maintenance gate.
type MaintenanceOptions struct {
	// Disabled reports whether the bot is administratively disabled.
	Disabled func() bool
	IsAdmin  AdminChecker
	// OnDisabled replies to non-admin senders while the bot is disabled.
	OnDisabled tele.HandlerFunc
}

// MaintenanceMiddleware short-circuits all updates from non-admin senders
// while the bot is administratively disabled. No state changes happen behind it.
func MaintenanceMiddleware(opts MaintenanceOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.Disabled == nil || !opts.Disabled() {
				return next(c)
			}
			if opts.IsAdmin != nil && opts.IsAdmin(c.Sender().ID) {
				return next(c)
			}
			if opts.OnDisabled != nil {
				return opts.OnDisabled(c)
			}
			return nil
		}
	}
}
