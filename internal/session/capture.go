package session

import (
	"strconv"
	"strings"

	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/texts"
)

// Await identifies an armed free-form input prompt. The empty value means no
// prompt is armed and Apply handles the next message.
type Await string

const (
	AwaitNone        Await = ""
	AwaitProfileName Await = "profile_name"
	AwaitRename      Await = "profile_rename"
	AwaitNote        Await = "note"
	AwaitWarmSets    Await = "warm_sets"
	AwaitMainSets    Await = "main_sets"
	AwaitWarmReps    Await = "warm_reps"
	AwaitMainReps    Await = "main_reps"
	AwaitWarmWeight  Await = "warm_weight"
	AwaitMainWeight  Await = "main_weight"
)

// Prompt is the question the bot asks when the sub-state is armed.
func (a Await) Prompt() string {
	switch a {
	case AwaitProfileName:
		return texts.PromptProfileName
	case AwaitRename:
		return texts.PromptRenameName
	case AwaitNote:
		return texts.PromptNote
	case AwaitWarmSets, AwaitMainSets:
		return texts.PromptAmount(a.warmUp())
	case AwaitWarmReps, AwaitMainReps:
		return texts.PromptRepetitions(a.warmUp())
	case AwaitWarmWeight, AwaitMainWeight:
		return texts.PromptWeight(a.warmUp())
	default:
		return texts.Unknown
	}
}

func (a Await) warmUp() bool {
	switch a {
	case AwaitWarmSets, AwaitWarmReps, AwaitWarmWeight:
		return true
	}
	return false
}

// reserved lists button labels that cannot become profile names, otherwise
// the profile would shadow a command and turn unreachable.
var reserved = func() map[string]struct{} {
	labels := []string{
		texts.BtnProfiles, texts.BtnExercises, texts.BtnNewProfile,
		texts.BtnBack, texts.BtnToMenu, texts.BtnAddDay, texts.BtnDeleteDay,
		texts.BtnAddExercise, texts.BtnEnter, texts.BtnRename, texts.BtnDelete,
		texts.BtnNote,
	}
	m := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		m[norm(l)] = struct{}{}
	}
	return m
}()

// Capture consumes one message while an input prompt is armed. Invalid input
// re-prompts and keeps the sub-state armed; valid input applies the change
// and returns the user to their screen.
func Capture(u *domain.User, prefs *domain.BotPrefs, await Await, text string) Result {
	trimmed := strings.TrimSpace(text)
	if norm(trimmed) == norm(texts.BtnToMenu) {
		return Result{Reply: texts.MainMenu, Screen: domain.ScreenMain}
	}

	switch await {

	case AwaitProfileName:
		if bad, res := checkName(u, trimmed, domain.ScreenProfiles, await); bad {
			return res
		}
		u.AddProfile(trimmed)
		return Result{Reply: texts.ProfileCreated(trimmed), Screen: domain.ScreenProfiles}

	case AwaitRename:
		if bad, res := checkName(u, trimmed, domain.ScreenProfileActions, await); bad {
			return res
		}
		u.RenameCurrentProfile(trimmed)
		return Result{Reply: texts.ProfileRenamed(trimmed), Screen: domain.ScreenProfileActions}

	case AwaitNote:
		ex, res, ok := editingExercise(u)
		if !ok {
			return res
		}
		ex.Note = trimmed
		return Result{Reply: texts.Saved + "\n" + texts.ExerciseCard(ex), Screen: actionsScreen(u)}

	case AwaitWarmSets, AwaitMainSets, AwaitWarmReps, AwaitMainReps:
		ex, res, ok := editingExercise(u)
		if !ok {
			return res
		}
		n, err := strconv.ParseUint(trimmed, 10, 32)
		if err != nil {
			return Result{Reply: texts.BadNumber + "\n" + await.Prompt(), Screen: u.LastScreen, Await: await}
		}
		block := ex.Block(await.warmUp())
		if await == AwaitWarmSets || await == AwaitMainSets {
			block.Amount = uint(n)
		} else {
			block.Repetitions = uint(n)
		}
		return Result{Reply: texts.Saved + "\n" + texts.ExerciseCard(ex), Screen: actionsScreen(u)}

	case AwaitWarmWeight, AwaitMainWeight:
		ex, res, ok := editingExercise(u)
		if !ok {
			return res
		}
		w, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
		if err != nil || w < 0 {
			return Result{Reply: texts.BadNumber + "\n" + await.Prompt(), Screen: u.LastScreen, Await: await}
		}
		ex.Block(await.warmUp()).Weight = w
		return Result{Reply: texts.Saved + "\n" + texts.ExerciseCard(ex), Screen: actionsScreen(u)}
	}

	return Result{Reply: texts.Unknown, Screen: domain.ScreenMain}
}

// checkName validates a profile name: non-empty, not a button label, not
// taken. A failed check re-prompts without dropping the sub-state.
func checkName(u *domain.User, name string, screen domain.Screen, await Await) (bool, Result) {
	if name == "" {
		return true, Result{Reply: texts.NameEmpty, Screen: screen, Await: await}
	}
	if _, ok := reserved[norm(name)]; ok {
		return true, Result{Reply: texts.NameTaken, Screen: screen, Await: await}
	}
	if await == AwaitRename {
		if p := u.CurrentProfile(); p != nil && p.Name == name {
			return false, Result{}
		}
	}
	if u.HasProfile(name) {
		return true, Result{Reply: texts.NameTaken, Screen: screen, Await: await}
	}
	return false, Result{}
}

// editingExercise resolves the exercise referenced by the cursor. A missing
// reference means the day or catalog changed under the user; bail to main.
func editingExercise(u *domain.User) (*domain.UserExercise, Result, bool) {
	if u.Cursor.Editing == "" {
		return nil, Result{Reply: texts.Unknown, Screen: domain.ScreenMain}, false
	}
	return u.Exercise(u.Cursor.Editing), Result{}, true
}

// actionsScreen keeps the user on whichever action screen they came from.
func actionsScreen(u *domain.User) domain.Screen {
	if u.LastScreen == domain.ScreenExerciseActions {
		return domain.ScreenExerciseActions
	}
	return domain.ScreenExerciseActionsExtended
}
