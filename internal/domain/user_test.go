package domain

import "testing"

func TestAddProfileRejectsDuplicate(t *testing.T) {
	u := NewUser(1, "Иван", "Петров")
	if !u.AddProfile("Масса") {
		t.Fatal("first add should succeed")
	}
	if u.AddProfile("Масса") {
		t.Fatal("duplicate name should be rejected")
	}
	if len(u.Profiles) != 1 {
		t.Fatalf("profiles = %d, want 1", len(u.Profiles))
	}
}

func TestRenameCurrentProfile(t *testing.T) {
	u := NewUser(1, "", "")
	u.AddProfile("Масса")
	u.AddProfile("Сушка")
	u.Cursor.Profile = 1
	if u.RenameCurrentProfile("Масса") {
		t.Fatal("rename onto taken name should be rejected")
	}
	if !u.RenameCurrentProfile("Сушка v2") {
		t.Fatal("rename should succeed")
	}
	if u.Profiles[1].Name != "Сушка v2" {
		t.Fatalf("name = %q", u.Profiles[1].Name)
	}
	if !u.RenameCurrentProfile("Сушка v2") {
		t.Fatal("rename to own name should be a no-op success")
	}
}

func TestDeleteCurrentProfileResetsCursor(t *testing.T) {
	u := NewUser(1, "", "")
	u.AddProfile("A")
	u.AddProfile("B")
	u.AddProfile("C")
	u.Cursor = Cursor{Profile: 1, Day: 3, Exercise: 2}
	if !u.DeleteCurrentProfile() {
		t.Fatal("delete should succeed")
	}
	if len(u.Profiles) != 2 || u.Profiles[0].Name != "A" || u.Profiles[1].Name != "C" {
		t.Fatalf("unexpected profiles after delete: %+v", u.Profiles)
	}
	if u.Cursor != (Cursor{}) {
		t.Fatalf("cursor should reset to zero, got %+v", u.Cursor)
	}
}

func TestDeleteCurrentDayRemovesExactIndex(t *testing.T) {
	u := NewUser(1, "", "")
	u.AddProfile("A")
	u.AddDay()
	u.AddDay()
	u.AddDay()
	u.Profiles[0].Days[0] = Day{"Отжимания"}
	u.Profiles[0].Days[1] = Day{"Жим лёжа"}
	u.Profiles[0].Days[2] = Day{"Становая тяга"}
	u.Cursor.Day = 1
	if !u.DeleteCurrentDay() {
		t.Fatal("delete should succeed")
	}
	p := u.Profiles[0]
	if len(p.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(p.Days))
	}
	if p.Days[0][0] != "Отжимания" || p.Days[1][0] != "Становая тяга" {
		t.Fatalf("wrong day removed: %+v", p.Days)
	}
	if u.Cursor.Day != 0 || u.Cursor.Exercise != 0 {
		t.Fatalf("day/exercise cursor should reset, got %+v", u.Cursor)
	}
}

func TestAddExerciseToCurrentDay(t *testing.T) {
	u := NewUser(1, "", "")
	u.AddProfile("A")
	u.AddDay()
	if !u.AddExerciseToCurrentDay("Отжимания") {
		t.Fatal("add should succeed")
	}
	if u.AddExerciseToCurrentDay("Отжимания") {
		t.Fatal("second add of the same name should be refused")
	}
	if _, ok := u.Exercises["Отжимания"]; !ok {
		t.Fatal("user instance should be created on add")
	}
	if got := len(u.CurrentDay()); got != 1 {
		t.Fatalf("day length = %d, want 1", got)
	}
}

func TestRemoveExerciseKeepsInstance(t *testing.T) {
	u := NewUser(1, "", "")
	u.AddProfile("A")
	u.AddDay()
	u.AddExerciseToCurrentDay("Отжимания")
	u.AddExerciseToCurrentDay("Жим лёжа")
	u.Exercise("Отжимания").Main = Approaches{Amount: 3, Repetitions: 12, Weight: 0}
	u.Cursor.Exercise = 0
	if !u.RemoveExerciseFromCurrentDay() {
		t.Fatal("remove should succeed")
	}
	day := u.CurrentDay()
	if len(day) != 1 || day[0] != "Жим лёжа" {
		t.Fatalf("unexpected day after remove: %+v", day)
	}
	ex, ok := u.Exercises["Отжимания"]
	if !ok {
		t.Fatal("personalized instance must survive removal from a day")
	}
	if ex.Main.Repetitions != 12 {
		t.Fatalf("instance data lost: %+v", ex.Main)
	}
}

func TestClampCursor(t *testing.T) {
	u := NewUser(1, "", "")
	u.AddProfile("A")
	u.AddDay()
	u.AddExerciseToCurrentDay("Отжимания")
	u.Cursor = Cursor{Profile: 5, Day: 5, Exercise: 5}
	u.ClampCursor()
	if u.Cursor.Profile != 0 || u.Cursor.Day != 0 || u.Cursor.Exercise != 0 {
		t.Fatalf("cursor not clamped: %+v", u.Cursor)
	}
}

func TestExerciseLazyCreate(t *testing.T) {
	u := &User{ID: 2}
	ex := u.Exercise("Становая тяга")
	if ex == nil || ex.Name != "Становая тяга" {
		t.Fatalf("unexpected instance: %+v", ex)
	}
	if again := u.Exercise("Становая тяга"); again != ex {
		t.Fatal("repeat lookup should return the same instance")
	}
}

func TestPrefsLookups(t *testing.T) {
	p := DefaultPrefs()
	if len(p.Catalog) != 11 {
		t.Fatalf("seed catalog = %d entries, want 11", len(p.Catalog))
	}
	ex := p.ExerciseByName("Отжимания")
	if ex == nil || ex.MediaRef == "" {
		t.Fatalf("catalog lookup failed: %+v", ex)
	}
	if p.ExerciseByName("нет такого") != nil {
		t.Fatal("unknown name should return nil")
	}
	names := p.ExerciseNames()
	if names[0] != "Жим гантелей лёжа" {
		t.Fatalf("catalog order broken: %v", names)
	}
	if byKey := p.ExerciseByKey("pushups"); byKey == nil || byKey.Name != "Отжимания" {
		t.Fatalf("key lookup: %+v", byKey)
	}
	p.Admins = []int64{42}
	if !p.IsAdmin(42) || p.IsAdmin(7) {
		t.Fatal("admin lookup broken")
	}
}

func TestMergeDefaultCatalog(t *testing.T) {
	p := &BotPrefs{Catalog: []Exercise{{Key: "pushups", Name: "Отжимания (мои)"}}}
	if added := p.MergeDefaultCatalog(); added != 10 {
		t.Fatalf("added = %d, want 10", added)
	}
	if p.Catalog[0].Name != "Отжимания (мои)" {
		t.Fatal("existing entry must not be overwritten")
	}
	if p.MergeDefaultCatalog() != 0 {
		t.Fatal("repeat merge should add nothing")
	}
}
