package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/core/telegram/callbacks"
	"github.com/m3rciful/gymbot/core/telegram/format"
	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"
	"github.com/m3rciful/gymbot/core/telegram/state"
	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/menu"
	"github.com/m3rciful/gymbot/internal/session"
	"github.com/m3rciful/gymbot/internal/texts"
)

// menuCallbackKey routes inline buttons whose payload repeats a keyboard
// label, making a button press equivalent to typing the label.
const menuCallbackKey = "menu"

// awaitStatePrefix namespaces capture sub-states inside the FSM manager.
const awaitStatePrefix = "await:"

func awaitState(a session.Await) state.State {
	return state.State(awaitStatePrefix + string(a))
}

var captureStates = []session.Await{
	session.AwaitProfileName,
	session.AwaitRename,
	session.AwaitNote,
	session.AwaitWarmSets,
	session.AwaitMainSets,
	session.AwaitWarmReps,
	session.AwaitMainReps,
	session.AwaitWarmWeight,
	session.AwaitMainWeight,
}

func (a *App) registerCaptureStates() {
	for _, await := range captureStates {
		aw := await
		state.RegisterHandler(awaitState(aw), func(c tele.Context) error {
			return a.dispatch(c, c.Text(), aw)
		})
	}
}

// handleStart greets the user and shows the main menu. Creation happens here
// for brand-new accounts and on any other first inbound update via dispatch.
func (a *App) handleStart(c tele.Context) error {
	sender := c.Sender()
	created := a.store.Ensure(sender.ID, sender.FirstName, sender.LastName)
	a.fsm.ClearState(sender.ID)

	var greeting string
	var markup *tele.ReplyMarkup
	err := a.store.Mutate(sender.ID, func(u *domain.User, p *domain.BotPrefs) {
		u.LastScreen = domain.ScreenMain
		greeting = texts.Greeting(u.FirstName, u.Gender)
		u.LastPrompt = greeting
		markup = menu.Markup(domain.ScreenMain, u, p)
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info(tghelpers.BuildContext(c), "session", "session.user.created",
			slog.String("status", "ok"),
			slog.Int64("user_id", sender.ID),
		)
	}
	return tghelpers.SendText(c, greeting, &tele.SendOptions{ReplyMarkup: markup})
}

// handleText feeds free-form messages into the navigation machine.
func (a *App) handleText(c tele.Context) error {
	return a.dispatch(c, c.Text(), session.AwaitNone)
}

// UnknownText implements ui.FallbackProvider: any free text that is not a
// registered command drives the navigation machine.
func (a *App) UnknownText() tele.HandlerFunc {
	return a.handleText
}

// UnknownCallback implements ui.FallbackProvider: inline buttons from before
// a release may carry retired keys, answer them instead of staying silent.
func (a *App) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, texts.Unknown)
	}
}

// handleMenuCallback treats an inline button press as if its label was typed.
func (a *App) handleMenuCallback(c tele.Context) error {
	label := callbacks.CallbackPayload(c)
	if label == "" {
		return nil
	}
	return a.dispatch(c, label, session.AwaitNone)
}

// handleRemoveExercise deletes the exercise named in the callback payload
// from the user's current day.
func (a *App) handleRemoveExercise(c tele.Context) error {
	name := callbacks.CallbackPayload(c)
	sender := c.Sender()
	a.store.Ensure(sender.ID, sender.FirstName, sender.LastName)

	var res session.Result
	var markup *tele.ReplyMarkup
	err := a.store.Mutate(sender.ID, func(u *domain.User, p *domain.BotPrefs) {
		res = session.RemoveFromDay(u, name)
		u.LastScreen = res.Screen
		u.LastPrompt = res.Reply
		markup = menu.Markup(res.Screen, u, p)
	})
	if err != nil {
		return err
	}
	a.fsm.ClearState(sender.ID)
	return tghelpers.SendText(c, res.Reply, &tele.SendOptions{ReplyMarkup: markup})
}

// dispatch runs one inbound text through Apply or, when a capture sub-state
// is armed, through Capture, then sends the reply with the next screen's
// keyboard. All user mutation happens inside a single store.Mutate call, so
// close-together updates from the same account serialize instead of racing.
func (a *App) dispatch(c tele.Context, text string, await session.Await) error {
	started := time.Now()
	sender := c.Sender()
	a.store.Ensure(sender.ID, sender.FirstName, sender.LastName)

	var res session.Result
	var markup *tele.ReplyMarkup
	var execSuffix bool
	err := a.store.Mutate(sender.ID, func(u *domain.User, p *domain.BotPrefs) {
		if await != session.AwaitNone {
			res = session.Capture(u, p, await, text)
		} else {
			res = session.Apply(u, p, text)
		}
		u.LastScreen = res.Screen
		u.LastPrompt = res.Reply
		if res.Await == session.AwaitNone {
			markup = menu.Markup(res.Screen, u, p)
		}
		execSuffix = p.SendExecutionTime
	})
	if err != nil {
		return err
	}

	if res.Await != session.AwaitNone {
		a.fsm.SetState(sender.ID, awaitState(res.Await))
	} else {
		a.fsm.ClearState(sender.ID)
	}

	logger.Debug(tghelpers.BuildContext(c), "session", "session.transition",
		slog.String("status", "ok"),
		slog.Int64("user_id", sender.ID),
		slog.String("screen", string(res.Screen)),
		slog.String("await", string(res.Await)),
	)

	reply := res.Reply
	if execSuffix && a.IsAdmin(sender.ID) {
		reply += "\n\n" + texts.ExecutionTime(time.Since(started).Milliseconds())
	}

	if res.MediaRef != "" {
		a.sendMedia(c, res.MediaRef)
	}
	if markup != nil {
		return tghelpers.SendText(c, reply, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(c, reply)
}

// sendMedia attaches the catalog animation for an exercise card. Rejections
// are logged by the dispatcher and never shown to the user.
func (a *App) sendMedia(c tele.Context, ref string) {
	doc := &tele.Document{File: tele.File{FileID: ref}}
	_ = tghelpers.SendDocument(c, doc)
}

// handleVersion announces the running version and records it in prefs so a
// restart does not re-announce the same release.
func (a *App) handleVersion(c tele.Context) error {
	version, changelog := currentVersion()
	escaped, err := format.EscapeMarkdown(changelog, format.MarkdownV1, "")
	if err != nil {
		return err
	}
	msg, err := c.Bot().Send(c.Chat(), texts.VersionAnnouncement(version, escaped),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown})
	if err != nil {
		return err
	}
	a.store.MutatePrefs(func(p *domain.BotPrefs) {
		p.LastPosted = domain.LastPosted{Version: version, MessageID: msg.ID}
	})
	return nil
}

// handleStats replies with aggregate store counts.
func (a *App) handleStats(c tele.Context) error {
	users, profiles, days := a.store.Stats()
	return tghelpers.SendText(c, texts.Stats(users, profiles, days))
}

// logPendingAnnouncement reminds operators that the running release was not
// announced yet. The announcement itself stays a manual /version action.
func (a *App) logPendingAnnouncement(ctx context.Context) {
	version, _ := currentVersion()
	var posted string
	a.store.ViewPrefs(func(p *domain.BotPrefs) { posted = p.LastPosted.Version })
	if posted == version {
		return
	}
	logger.Info(ctx, "app", "app.version.unannounced",
		slog.String("status", "ok"),
		slog.String("cause", fmt.Sprintf("running %s, last posted %q", version, posted)),
	)
}
