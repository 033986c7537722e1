package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/m3rciful/gymbot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// RecoverOptions configure the panic boundary around handlers.
type RecoverOptions struct {
	// Apology is sent to the user whose update caused the panic. Empty skips the reply.
	Apology string
	// Report forwards a technical report (stack trace plus sender identity)
	// to a maintainer channel. Never called with an empty report.
	Report func(c tele.Context, report string)
}

// RecoverMiddleware catches panics in handlers and prevents the bot from crashing.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return RecoverWith(RecoverOptions{})(next)
}

// RecoverWith builds a panic boundary that apologizes to the user and
// forwards the stack trace to a maintainer.
func RecoverWith(opts RecoverOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					stack := debug.Stack()
					var senderID int64
					if c.Sender() != nil {
						senderID = c.Sender().ID
					}
					logger.TG.Error("panic recovered",
						slog.String("event", "tg.panic"),
						slog.Int64("user_id", senderID),
						slog.Any("err", r),
						slog.String("stack", string(stack)),
					)
					if opts.Apology != "" {
						_ = c.Send(opts.Apology)
					}
					if opts.Report != nil {
						opts.Report(c, fmt.Sprintf("panic from user %d: %v\n\n%s", senderID, r, stack))
					}
				}
			}()
			return next(c)
		}
	}
}
