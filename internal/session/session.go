// Package session implements the per-user navigation machine. Apply takes the
// user's current screen and an inbound text and returns the reply, the next
// screen and any input sub-state to arm. It mutates only the passed user, so
// callers wrap it in a store mutation and transitions stay easy to test.
package session

import (
	"strconv"
	"strings"

	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/menu"
	"github.com/m3rciful/gymbot/internal/texts"
)

// Result describes the outcome of one inbound message: what to reply, which
// screen the user lands on and whether a free-form input prompt is armed.
// MediaRef is set when the reply should carry a catalog attachment.
type Result struct {
	Reply    string
	Screen   domain.Screen
	Await    Await
	MediaRef string
}

type transition func(u *domain.User, prefs *domain.BotPrefs) Result

// table maps (screen, normalized button label) to a transition. Dynamic
// labels, profile names, day captions and catalog entries, are resolved by
// dynamicMatch against the rows the menu actually rendered.
var table = map[domain.Screen]map[string]transition{
	domain.ScreenMain: {
		norm(texts.BtnProfiles): func(u *domain.User, _ *domain.BotPrefs) Result {
			return Result{Reply: texts.ChooseProfile, Screen: domain.ScreenProfiles}
		},
		norm(texts.BtnExercises): func(u *domain.User, _ *domain.BotPrefs) Result {
			return Result{Reply: texts.CatalogIntro, Screen: domain.ScreenCatalog}
		},
	},
	domain.ScreenProfiles: {
		norm(texts.BtnNewProfile): func(u *domain.User, _ *domain.BotPrefs) Result {
			return Result{Reply: texts.PromptProfileName, Screen: domain.ScreenProfiles, Await: AwaitProfileName}
		},
	},
	domain.ScreenProfileActions: {
		norm(texts.BtnEnter): func(u *domain.User, _ *domain.BotPrefs) Result {
			return Result{Reply: texts.ChooseDay, Screen: domain.ScreenDays}
		},
		norm(texts.BtnRename): func(u *domain.User, _ *domain.BotPrefs) Result {
			return Result{Reply: texts.PromptRenameName, Screen: domain.ScreenProfileActions, Await: AwaitRename}
		},
		norm(texts.BtnDelete): func(u *domain.User, _ *domain.BotPrefs) Result {
			u.DeleteCurrentProfile()
			return Result{Reply: texts.ProfileDeleted + ". " + texts.ChooseProfile, Screen: domain.ScreenProfiles}
		},
	},
	domain.ScreenDays: {
		norm(texts.BtnAddDay): func(u *domain.User, _ *domain.BotPrefs) Result {
			n := u.AddDay()
			return Result{Reply: texts.DayAdded(n), Screen: domain.ScreenDays}
		},
	},
	domain.ScreenExercises: {
		norm(texts.BtnDeleteDay): func(u *domain.User, _ *domain.BotPrefs) Result {
			u.DeleteCurrentDay()
			return Result{Reply: texts.DayDeleted + ". " + texts.ChooseDay, Screen: domain.ScreenDays}
		},
		norm(texts.BtnAddExercise): func(u *domain.User, _ *domain.BotPrefs) Result {
			return Result{Reply: texts.ChooseToAdd, Screen: domain.ScreenCatalogAdd}
		},
	},
	domain.ScreenExerciseActions:         actionTable(false),
	domain.ScreenExerciseActionsExtended: actionTable(true),
}

// parents drives the «Назад» button: each screen returns to the place it was
// entered from. catalog_add and the extended actions screen belong to the
// day flow, catalog and plain actions to the browse flow.
var parents = map[domain.Screen]domain.Screen{
	domain.ScreenProfiles:                domain.ScreenMain,
	domain.ScreenProfileActions:          domain.ScreenProfiles,
	domain.ScreenDays:                    domain.ScreenProfileActions,
	domain.ScreenExercises:               domain.ScreenDays,
	domain.ScreenCatalog:                 domain.ScreenMain,
	domain.ScreenCatalogAdd:              domain.ScreenExercises,
	domain.ScreenExerciseActions:         domain.ScreenCatalog,
	domain.ScreenExerciseActionsExtended: domain.ScreenExercises,
}

// Apply routes one inbound text through the transition table of the user's
// current screen. Text that matches nothing on the current keyboard yields
// the unknown reply and leaves the user in place.
func Apply(u *domain.User, prefs *domain.BotPrefs, text string) Result {
	trimmed := strings.TrimSpace(text)
	cmd := norm(trimmed)
	screen := u.LastScreen
	if !screen.Known() {
		screen = domain.ScreenMain
	}

	if cmd == norm(texts.BtnToMenu) {
		return Result{Reply: texts.MainMenu, Screen: domain.ScreenMain}
	}
	if cmd == norm(texts.BtnBack) {
		return Result{Reply: screenIntro(parentOf(screen)), Screen: parentOf(screen)}
	}
	if m := table[screen]; m != nil {
		if tr := m[cmd]; tr != nil {
			return tr(u, prefs)
		}
	}
	if res, ok := dynamicMatch(screen, u, prefs, trimmed); ok {
		return res
	}
	return Result{Reply: texts.Unknown, Screen: screen}
}

// RemoveFromDay handles the inline delete button of the extended actions
// screen. The payload names the exercise, so a stale callback after the day
// changed cannot delete a neighbour.
func RemoveFromDay(u *domain.User, name string) Result {
	day := u.CurrentDay()
	idx := day.Index(name)
	if idx < 0 {
		return Result{Reply: texts.Unknown, Screen: domain.ScreenExercises}
	}
	u.Cursor.Exercise = idx
	u.RemoveExerciseFromCurrentDay()
	return Result{Reply: texts.ExerciseRemoved(name) + ". " + dayIntro(u), Screen: domain.ScreenExercises}
}

// dynamicMatch resolves labels generated from user data: profile names, day
// captions, day exercises and catalog entries. Matching is screen-scoped and
// checked against the rendered keyboard, so a profile name typed on the main
// screen stays unknown.
func dynamicMatch(screen domain.Screen, u *domain.User, prefs *domain.BotPrefs, text string) (Result, bool) {
	if text == "" || !menu.Has(screen, u, prefs, text) {
		return Result{}, false
	}
	switch screen {

	case domain.ScreenProfiles:
		idx := u.ProfileIndex(text)
		if idx < 0 {
			return Result{}, false
		}
		u.Cursor.Profile = idx
		return Result{Reply: texts.ProfileScreen(text), Screen: domain.ScreenProfileActions}, true

	case domain.ScreenDays:
		n, ok := parseDayLabel(text)
		p := u.CurrentProfile()
		if !ok || p == nil || n < 1 || n > len(p.Days) {
			return Result{}, false
		}
		u.Cursor.Day = n - 1
		return Result{Reply: texts.DayScreen(n), Screen: domain.ScreenExercises}, true

	case domain.ScreenExercises:
		idx := u.CurrentDay().Index(text)
		if idx < 0 {
			return Result{}, false
		}
		u.Cursor.Exercise = idx
		u.Cursor.Editing = text
		return Result{Reply: texts.ExerciseCard(u.Exercise(text)), Screen: domain.ScreenExerciseActionsExtended}, true

	case domain.ScreenCatalog:
		ex := prefs.ExerciseByName(text)
		if ex == nil {
			return Result{}, false
		}
		u.Cursor.Editing = text
		reply := texts.CatalogCard(ex) + "\n\n" + texts.ExerciseCard(u.Exercise(text))
		return Result{Reply: reply, Screen: domain.ScreenExerciseActions, MediaRef: ex.MediaRef}, true

	case domain.ScreenCatalogAdd:
		if prefs.ExerciseByName(text) == nil {
			return Result{}, false
		}
		if !u.AddExerciseToCurrentDay(text) {
			return Result{Reply: texts.AlreadyInDay, Screen: domain.ScreenCatalogAdd}, true
		}
		return Result{Reply: texts.ExerciseAdded(text) + ". " + dayIntro(u), Screen: domain.ScreenExercises}, true
	}
	return Result{}, false
}

func actionTable(extended bool) map[string]transition {
	m := map[string]transition{
		norm(texts.BtnWarmSets):   prompt(AwaitWarmSets, extended),
		norm(texts.BtnMainSets):   prompt(AwaitMainSets, extended),
		norm(texts.BtnWarmReps):   prompt(AwaitWarmReps, extended),
		norm(texts.BtnMainReps):   prompt(AwaitMainReps, extended),
		norm(texts.BtnWarmWeight): prompt(AwaitWarmWeight, extended),
		norm(texts.BtnMainWeight): prompt(AwaitMainWeight, extended),
		norm(texts.BtnNote):       prompt(AwaitNote, extended),
	}
	if extended {
		m[norm(texts.BtnDelete)] = func(u *domain.User, _ *domain.BotPrefs) Result {
			return RemoveFromDay(u, u.Cursor.Editing)
		}
	}
	return m
}

func prompt(a Await, extended bool) transition {
	screen := domain.ScreenExerciseActions
	if extended {
		screen = domain.ScreenExerciseActionsExtended
	}
	return func(u *domain.User, _ *domain.BotPrefs) Result {
		return Result{Reply: a.Prompt(), Screen: screen, Await: a}
	}
}

func parentOf(screen domain.Screen) domain.Screen {
	if p, ok := parents[screen]; ok {
		return p
	}
	return domain.ScreenMain
}

// screenIntro is the text shown when a screen is entered without a more
// specific reply, e.g. after «Назад».
func screenIntro(screen domain.Screen) string {
	switch screen {
	case domain.ScreenProfiles:
		return texts.ChooseProfile
	case domain.ScreenProfileActions:
		return texts.ChooseAction
	case domain.ScreenDays:
		return texts.ChooseDay
	case domain.ScreenExercises:
		return texts.ChooseAction
	case domain.ScreenCatalog:
		return texts.CatalogIntro
	case domain.ScreenCatalogAdd:
		return texts.ChooseToAdd
	default:
		return texts.MainMenu
	}
}

func dayIntro(u *domain.User) string {
	return texts.DayScreen(u.Cursor.Day + 1)
}

func parseDayLabel(text string) (int, bool) {
	rest, ok := strings.CutPrefix(text, "День ")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func norm(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
