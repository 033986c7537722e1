package router

import (
	"testing"

	tg "github.com/m3rciful/gymbot/core/telegram"
	"github.com/m3rciful/gymbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

// Route building happens before logging is configured, so it must work with
// a zero-value logger.
func TestCommandRoutesWithoutLoggerInit(t *testing.T) {
	noop := func(c tele.Context) error { return nil }

	reg := tg.NewRegistry()
	reg.RegisterCommand("/ping", commands.Command{Handler: noop, Description: "ping"})
	// Invalid registrations only log a warning.
	reg.RegisterCommand("noslash", commands.Command{Handler: noop, Description: "x"})
	reg.RegisterCommand("/ping", commands.Command{Handler: noop, Description: "dup"})

	routes := CommandRoutes(reg, CommandRouteOptions{})
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}
	if routes[0].Endpoint != "/ping" {
		t.Fatalf("endpoint = %q", routes[0].Endpoint)
	}

	text := TextRoutes(nil, reg, TextOptions{})
	if len(text) != 1 || text[0].Endpoint != tele.OnText {
		t.Fatalf("text routes = %+v", text)
	}
}
