// Package menu renders the keyboard of each navigation screen. The row layout
// returned by Rows is the single source of truth: the session transition table
// matches free-form text against these same rows, so a button that is not on
// the current screen is never a valid command.
package menu

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gymbot/core/telegram/keyboard"
	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/texts"
)

// CallbackRemoveExercise is the unique of the inline delete button on the
// extended exercise screen.
const CallbackRemoveExercise = "remove_exercise"

// Rows returns the button labels of a screen, row by row, for the given user
// and catalog. Unknown screens fall back to the main menu layout.
func Rows(screen domain.Screen, u *domain.User, prefs *domain.BotPrefs) [][]string {
	switch screen {

	case domain.ScreenProfiles:
		rows := [][]string{{texts.BtnNewProfile}}
		for _, p := range u.Profiles {
			rows = append(rows, []string{p.Name})
		}
		rows = append(rows, []string{texts.BtnBack})
		return withToMenu(rows)

	case domain.ScreenProfileActions:
		return [][]string{
			{texts.BtnEnter},
			{texts.BtnRename},
			{texts.BtnDelete},
			{texts.BtnBack},
		}

	case domain.ScreenDays:
		rows := [][]string{{texts.BtnAddDay}}
		var labels []string
		if p := u.CurrentProfile(); p != nil {
			for i := range p.Days {
				labels = append(labels, texts.DayLabel(i+1))
			}
		}
		rows = append(rows, pairs(labels)...)
		rows = append(rows, []string{texts.BtnBack})
		return withToMenu(rows)

	case domain.ScreenExercises:
		rows := [][]string{
			{texts.BtnDeleteDay},
			{texts.BtnAddExercise},
		}
		for _, name := range u.CurrentDay() {
			rows = append(rows, []string{name})
		}
		rows = append(rows, []string{texts.BtnBack})
		return withToMenu(rows)

	case domain.ScreenCatalog, domain.ScreenCatalogAdd:
		rows := pairs(prefs.ExerciseNames())
		rows = append(rows, []string{texts.BtnBack})
		return withToMenu(rows)

	case domain.ScreenExerciseActions:
		return approachesRows(false)

	case domain.ScreenExerciseActionsExtended:
		return approachesRows(true)

	default:
		return [][]string{{texts.BtnProfiles, texts.BtnExercises}}
	}
}

// Markup builds the reply keyboard for a screen. The two exercise action
// screens are the only inline ones; their delete button carries a callback.
func Markup(screen domain.Screen, u *domain.User, prefs *domain.BotPrefs) *tele.ReplyMarkup {
	rows := Rows(screen, u, prefs)
	switch screen {
	case domain.ScreenExerciseActions:
		return inlineText(rows, nil)
	case domain.ScreenExerciseActionsExtended:
		extra := keyboard.InlineBtn{
			Text:   texts.BtnDelete,
			Unique: CallbackRemoveExercise,
			Data:   u.Cursor.Editing,
		}
		return inlineText(rows, &extra)
	default:
		return keyboard.ReplyButtons(rows...)
	}
}

// Has reports whether the label appears anywhere on the screen's keyboard.
func Has(screen domain.Screen, u *domain.User, prefs *domain.BotPrefs, label string) bool {
	for _, row := range Rows(screen, u, prefs) {
		for _, b := range row {
			if b == label {
				return true
			}
		}
	}
	return false
}

func approachesRows(extended bool) [][]string {
	rows := [][]string{
		{texts.BtnWarmSets, texts.BtnMainSets},
		{texts.BtnWarmReps, texts.BtnMainReps},
		{texts.BtnWarmWeight, texts.BtnMainWeight},
	}
	last := []string{texts.BtnNote}
	if extended {
		last = append(last, texts.BtnDelete)
	}
	return append(rows, last)
}

// inlineText renders text rows as inline buttons whose payload repeats the
// label, so pressing one is equivalent to typing it. When extra is set, the
// last occurrence of its text is replaced with the dedicated callback button.
func inlineText(rows [][]string, extra *keyboard.InlineBtn) *tele.ReplyMarkup {
	out := make([][]keyboard.InlineBtn, len(rows))
	for i, row := range rows {
		r := make([]keyboard.InlineBtn, len(row))
		for j, label := range row {
			btn := keyboard.InlineBtn{Text: label, Unique: "menu", Data: label}
			if extra != nil && i == len(rows)-1 && label == extra.Text {
				btn = *extra
			}
			r[j] = btn
		}
		out[i] = r
	}
	return keyboard.InlineButtonsRows(out...)
}

// pairs lays labels out two per row.
func pairs(labels []string) [][]string {
	var rows [][]string
	for i := 0; i < len(labels); i += 2 {
		end := i + 2
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, labels[i:end])
	}
	return rows
}

func withToMenu(rows [][]string) [][]string {
	return append(rows, []string{texts.BtnToMenu})
}
