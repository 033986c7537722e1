package session

import (
	"strings"
	"testing"

	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/texts"
)

// step feeds one message through Apply or Capture and advances the user's
// screen the way the bot handler does.
func step(t *testing.T, u *domain.User, prefs *domain.BotPrefs, await *Await, text string) Result {
	t.Helper()
	var res Result
	if *await != AwaitNone {
		res = Capture(u, prefs, *await, text)
	} else {
		res = Apply(u, prefs, text)
	}
	u.LastScreen = res.Screen
	u.LastPrompt = res.Reply
	*await = res.Await
	return res
}

func newUser() *domain.User {
	return domain.NewUser(100, "Иван", "Петров")
}

func TestCreateProfileFlow(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone

	res := step(t, u, prefs, &await, texts.BtnProfiles)
	if res.Screen != domain.ScreenProfiles {
		t.Fatalf("screen = %q", res.Screen)
	}
	res = step(t, u, prefs, &await, texts.BtnNewProfile)
	if await != AwaitProfileName {
		t.Fatalf("await = %q", await)
	}
	res = step(t, u, prefs, &await, "Leg Day")
	if await != AwaitNone {
		t.Fatalf("await should clear, got %q", await)
	}
	if res.Screen != domain.ScreenProfiles {
		t.Fatalf("screen = %q", res.Screen)
	}
	if len(u.Profiles) != 1 || u.Profiles[0].Name != "Leg Day" || len(u.Profiles[0].Days) != 0 {
		t.Fatalf("profiles = %+v", u.Profiles)
	}
}

func TestDuplicateProfileNameRePrompts(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	step(t, u, prefs, &await, "Масса")
	step(t, u, prefs, &await, texts.BtnNewProfile)

	res := step(t, u, prefs, &await, "Масса")
	if res.Reply != texts.NameTaken {
		t.Fatalf("reply = %q", res.Reply)
	}
	if await != AwaitProfileName {
		t.Fatal("sub-state must survive a rejected name")
	}
	if len(u.Profiles) != 1 {
		t.Fatalf("structural change on rejected name: %+v", u.Profiles)
	}
	if res = step(t, u, prefs, &await, "Сушка"); await != AwaitNone || len(u.Profiles) != 2 {
		t.Fatalf("retry failed: await=%q profiles=%+v", await, u.Profiles)
	}
}

func TestEmptyProfileNameRePrompts(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	res := step(t, u, prefs, &await, "   ")
	if res.Reply != texts.NameEmpty || await != AwaitProfileName {
		t.Fatalf("reply=%q await=%q", res.Reply, await)
	}
}

func TestReservedLabelRejectedAsProfileName(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	res := step(t, u, prefs, &await, texts.BtnBack)
	if res.Reply != texts.NameTaken || len(u.Profiles) != 0 {
		t.Fatalf("button label accepted as profile name: %q %+v", res.Reply, u.Profiles)
	}
}

// buildDayWithPushups walks a fresh user to day 1 with «Отжимания» added.
func buildDayWithPushups(t *testing.T, u *domain.User, prefs *domain.BotPrefs, await *Await) {
	t.Helper()
	step(t, u, prefs, await, texts.BtnProfiles)
	step(t, u, prefs, await, texts.BtnNewProfile)
	step(t, u, prefs, await, "Leg Day")
	step(t, u, prefs, await, "Leg Day")
	step(t, u, prefs, await, texts.BtnEnter)
	step(t, u, prefs, await, texts.BtnAddDay)
	step(t, u, prefs, await, "День 1")
	step(t, u, prefs, await, texts.BtnAddExercise)
	res := step(t, u, prefs, await, "Отжимания")
	if res.Screen != domain.ScreenExercises {
		t.Fatalf("after add screen = %q", res.Screen)
	}
}

func TestAddCatalogExerciseToDay(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)

	day := u.CurrentDay()
	if len(day) != 1 || day[0] != "Отжимания" {
		t.Fatalf("day = %v", day)
	}
	ex := u.Exercises["Отжимания"]
	if ex == nil {
		t.Fatal("instance not created")
	}
	zero := domain.Approaches{}
	if ex.WarmUp != zero || ex.Main != zero || ex.Note != "" {
		t.Fatalf("instance not zero-valued: %+v", ex)
	}
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)

	step(t, u, prefs, &await, texts.BtnAddExercise)
	res := step(t, u, prefs, &await, "Отжимания")
	if res.Reply != texts.AlreadyInDay {
		t.Fatalf("reply = %q", res.Reply)
	}
	if res.Screen != domain.ScreenCatalogAdd {
		t.Fatalf("screen = %q", res.Screen)
	}
	if len(u.CurrentDay()) != 1 {
		t.Fatalf("day = %v", u.CurrentDay())
	}
}

func TestNumericCaptureRetry(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)

	step(t, u, prefs, &await, "Отжимания")
	res := step(t, u, prefs, &await, texts.BtnMainWeight)
	if await != AwaitMainWeight {
		t.Fatalf("await = %q", await)
	}

	res = step(t, u, prefs, &await, "тяжело")
	if await != AwaitMainWeight {
		t.Fatal("parse failure must keep the sub-state")
	}
	if !strings.Contains(res.Reply, texts.BadNumber) {
		t.Fatalf("reply = %q", res.Reply)
	}
	if !strings.Contains(res.Reply, texts.PromptWeight(false)) {
		t.Fatalf("retry must repeat the question, reply = %q", res.Reply)
	}
	if u.Exercises["Отжимания"].Main.Weight != 0 {
		t.Fatal("field changed on invalid input")
	}

	res = step(t, u, prefs, &await, "52,5")
	if await != AwaitNone {
		t.Fatalf("await = %q", await)
	}
	if got := u.Exercises["Отжимания"].Main.Weight; got != 52.5 {
		t.Fatalf("weight = %v", got)
	}
	if !strings.Contains(res.Reply, texts.Saved) {
		t.Fatalf("reply = %q", res.Reply)
	}
}

func TestSetCountsAndNote(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)
	step(t, u, prefs, &await, "Отжимания")

	step(t, u, prefs, &await, texts.BtnWarmSets)
	step(t, u, prefs, &await, "2")
	step(t, u, prefs, &await, texts.BtnMainReps)
	step(t, u, prefs, &await, "12")
	step(t, u, prefs, &await, texts.BtnNote)
	step(t, u, prefs, &await, "до отказа")

	ex := u.Exercises["Отжимания"]
	if ex.WarmUp.Amount != 2 || ex.Main.Repetitions != 12 || ex.Note != "до отказа" {
		t.Fatalf("exercise = %+v", ex)
	}
	if u.LastScreen != domain.ScreenExerciseActionsExtended {
		t.Fatalf("screen = %q", u.LastScreen)
	}
}

func TestDeleteDayResetsCursorAndKeepsNeighbours(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	step(t, u, prefs, &await, "A")
	step(t, u, prefs, &await, "A")
	step(t, u, prefs, &await, texts.BtnEnter)
	step(t, u, prefs, &await, texts.BtnAddDay)
	step(t, u, prefs, &await, texts.BtnAddDay)
	step(t, u, prefs, &await, texts.BtnAddDay)
	step(t, u, prefs, &await, "День 2")
	step(t, u, prefs, &await, texts.BtnAddExercise)
	step(t, u, prefs, &await, "Жим лёжа")
	res := step(t, u, prefs, &await, texts.BtnDeleteDay)

	if res.Screen != domain.ScreenDays {
		t.Fatalf("screen = %q", res.Screen)
	}
	p := u.CurrentProfile()
	if len(p.Days) != 2 {
		t.Fatalf("days = %d", len(p.Days))
	}
	if len(p.Days[0]) != 0 || len(p.Days[1]) != 0 {
		t.Fatalf("wrong day deleted: %+v", p.Days)
	}
	if u.Cursor.Day != 0 || u.Cursor.Exercise != 0 {
		t.Fatalf("cursor = %+v", u.Cursor)
	}
}

func TestDeleteProfileCursorProperty(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	for _, name := range []string{"A", "B", "C"} {
		step(t, u, prefs, &await, texts.BtnProfiles)
		step(t, u, prefs, &await, texts.BtnNewProfile)
		step(t, u, prefs, &await, name)
	}
	step(t, u, prefs, &await, "B")
	res := step(t, u, prefs, &await, texts.BtnDelete)
	if res.Screen != domain.ScreenProfiles {
		t.Fatalf("screen = %q", res.Screen)
	}
	if len(u.Profiles) != 2 || u.Profiles[0].Name != "A" || u.Profiles[1].Name != "C" {
		t.Fatalf("profiles = %+v", u.Profiles)
	}
	if u.Cursor.Profile != 0 {
		t.Fatalf("cursor.profile = %d", u.Cursor.Profile)
	}
}

func TestRenameProfile(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	step(t, u, prefs, &await, "Старое")
	step(t, u, prefs, &await, "Старое")
	step(t, u, prefs, &await, texts.BtnRename)
	if await != AwaitRename {
		t.Fatalf("await = %q", await)
	}
	res := step(t, u, prefs, &await, "Новое")
	if res.Screen != domain.ScreenProfileActions {
		t.Fatalf("screen = %q", res.Screen)
	}
	if u.Profiles[0].Name != "Новое" {
		t.Fatalf("name = %q", u.Profiles[0].Name)
	}
}

func TestCatalogBrowseShowsCardAndMedia(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnExercises)
	if u.LastScreen != domain.ScreenCatalog {
		t.Fatalf("screen = %q", u.LastScreen)
	}
	res := step(t, u, prefs, &await, "Отжимания")
	if res.Screen != domain.ScreenExerciseActions {
		t.Fatalf("screen = %q", res.Screen)
	}
	if res.MediaRef == "" {
		t.Fatal("catalog card should carry the media reference")
	}
	if !strings.Contains(res.Reply, "Отжимания") {
		t.Fatalf("reply = %q", res.Reply)
	}
}

func TestUnknownCommandKeepsScreen(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	res := step(t, u, prefs, &await, "абракадабра")
	if res.Reply != texts.Unknown || res.Screen != domain.ScreenProfiles {
		t.Fatalf("reply=%q screen=%q", res.Reply, res.Screen)
	}
}

func TestProfileNameDoesNotLeakAcrossScreens(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	step(t, u, prefs, &await, "Масса")
	step(t, u, prefs, &await, texts.BtnToMenu)

	res := step(t, u, prefs, &await, "Масса")
	if res.Reply != texts.Unknown || res.Screen != domain.ScreenMain {
		t.Fatalf("profile name resolved off-screen: %+v", res)
	}
}

func TestBackWalksParentChain(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)

	for _, want := range []domain.Screen{
		domain.ScreenDays,
		domain.ScreenProfileActions,
		domain.ScreenProfiles,
		domain.ScreenMain,
		domain.ScreenMain,
	} {
		res := step(t, u, prefs, &await, texts.BtnBack)
		if res.Screen != want {
			t.Fatalf("back landed on %q, want %q", res.Screen, want)
		}
	}
}

func TestToMenuFromAnywhere(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)
	res := step(t, u, prefs, &await, texts.BtnToMenu)
	if res.Screen != domain.ScreenMain || res.Reply != texts.MainMenu {
		t.Fatalf("res = %+v", res)
	}
}

func TestToMenuCancelsCapture(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	step(t, u, prefs, &await, texts.BtnProfiles)
	step(t, u, prefs, &await, texts.BtnNewProfile)
	res := step(t, u, prefs, &await, texts.BtnToMenu)
	if await != AwaitNone || res.Screen != domain.ScreenMain {
		t.Fatalf("await=%q screen=%q", await, res.Screen)
	}
	if len(u.Profiles) != 0 {
		t.Fatalf("profiles = %+v", u.Profiles)
	}
}

func TestUnknownLastScreenFallsBackToMain(t *testing.T) {
	u := newUser()
	u.LastScreen = domain.Screen("archived")
	prefs := domain.DefaultPrefs()
	res := Apply(u, prefs, texts.BtnProfiles)
	if res.Screen != domain.ScreenProfiles {
		t.Fatalf("screen = %q", res.Screen)
	}
}

func TestRemoveFromDayByName(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)
	step(t, u, prefs, &await, texts.BtnAddExercise)
	step(t, u, prefs, &await, "Жим лёжа")

	res := RemoveFromDay(u, "Отжимания")
	if res.Screen != domain.ScreenExercises {
		t.Fatalf("screen = %q", res.Screen)
	}
	day := u.CurrentDay()
	if len(day) != 1 || day[0] != "Жим лёжа" {
		t.Fatalf("day = %v", day)
	}
	if res = RemoveFromDay(u, "Отжимания"); res.Reply != texts.Unknown {
		t.Fatalf("stale removal should be refused, got %q", res.Reply)
	}
}

func TestDeleteButtonOnExtendedScreen(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	await := AwaitNone
	buildDayWithPushups(t, u, prefs, &await)
	step(t, u, prefs, &await, "Отжимания")
	res := step(t, u, prefs, &await, texts.BtnDelete)
	if res.Screen != domain.ScreenExercises {
		t.Fatalf("screen = %q", res.Screen)
	}
	if len(u.CurrentDay()) != 0 {
		t.Fatalf("day = %v", u.CurrentDay())
	}
	if _, ok := u.Exercises["Отжимания"]; !ok {
		t.Fatal("instance must survive removal")
	}
}

func TestCommandMatchingIsCaseInsensitive(t *testing.T) {
	u := newUser()
	prefs := domain.DefaultPrefs()
	res := Apply(u, prefs, "  проФИЛИ ")
	if res.Screen != domain.ScreenProfiles {
		t.Fatalf("screen = %q", res.Screen)
	}
}
