package menu

import (
	"testing"

	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/texts"
)

func testUser() *domain.User {
	u := domain.NewUser(1, "Иван", "")
	u.AddProfile("Масса")
	u.AddProfile("Сушка")
	u.AddDay()
	u.AddDay()
	u.AddDay()
	u.AddExerciseToCurrentDay("Отжимания")
	return u
}

func TestRowsMain(t *testing.T) {
	rows := Rows(domain.ScreenMain, testUser(), domain.DefaultPrefs())
	if len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("main layout: %v", rows)
	}
	if rows[0][0] != texts.BtnProfiles || rows[0][1] != texts.BtnExercises {
		t.Fatalf("main buttons: %v", rows[0])
	}
}

func TestRowsProfilesListsEveryProfile(t *testing.T) {
	u := testUser()
	rows := Rows(domain.ScreenProfiles, u, domain.DefaultPrefs())
	// create + one row per profile + back + to-menu
	if len(rows) != 5 {
		t.Fatalf("rows = %d: %v", len(rows), rows)
	}
	if rows[0][0] != texts.BtnNewProfile {
		t.Fatalf("first row: %v", rows[0])
	}
	if rows[1][0] != "Масса" || rows[2][0] != "Сушка" {
		t.Fatalf("profile rows: %v", rows)
	}
	if rows[len(rows)-1][0] != texts.BtnToMenu {
		t.Fatalf("trailing row: %v", rows[len(rows)-1])
	}
}

func TestRowsDaysTwoPerRow(t *testing.T) {
	u := testUser()
	rows := Rows(domain.ScreenDays, u, domain.DefaultPrefs())
	// add-day, [День 1 День 2], [День 3], back, to-menu
	if len(rows) != 5 {
		t.Fatalf("rows = %d: %v", len(rows), rows)
	}
	if len(rows[1]) != 2 || rows[1][0] != "День 1" || rows[1][1] != "День 2" {
		t.Fatalf("day pairing: %v", rows[1])
	}
	if len(rows[2]) != 1 || rows[2][0] != "День 3" {
		t.Fatalf("odd tail: %v", rows[2])
	}
}

func TestRowsExercisesReflectDay(t *testing.T) {
	u := testUser()
	rows := Rows(domain.ScreenExercises, u, domain.DefaultPrefs())
	if rows[0][0] != texts.BtnDeleteDay || rows[1][0] != texts.BtnAddExercise {
		t.Fatalf("header rows: %v", rows)
	}
	if rows[2][0] != "Отжимания" {
		t.Fatalf("exercise row: %v", rows[2])
	}
}

func TestRowsCatalogPairsAllEntries(t *testing.T) {
	prefs := domain.DefaultPrefs()
	rows := Rows(domain.ScreenCatalog, testUser(), prefs)
	var labels int
	for _, row := range rows {
		for _, b := range row {
			if b != texts.BtnBack && b != texts.BtnToMenu {
				labels++
			}
		}
	}
	if labels != len(prefs.Catalog) {
		t.Fatalf("catalog buttons = %d, want %d", labels, len(prefs.Catalog))
	}
}

func TestRowsExerciseActions(t *testing.T) {
	base := Rows(domain.ScreenExerciseActions, testUser(), domain.DefaultPrefs())
	if len(base) != 4 || len(base[3]) != 1 || base[3][0] != texts.BtnNote {
		t.Fatalf("base action rows: %v", base)
	}
	ext := Rows(domain.ScreenExerciseActionsExtended, testUser(), domain.DefaultPrefs())
	last := ext[len(ext)-1]
	if len(last) != 2 || last[1] != texts.BtnDelete {
		t.Fatalf("extended last row: %v", last)
	}
}

func TestHasMatchesOnlyCurrentScreen(t *testing.T) {
	u := testUser()
	prefs := domain.DefaultPrefs()
	if !Has(domain.ScreenProfiles, u, prefs, "Масса") {
		t.Fatal("profile button should be on the profiles screen")
	}
	if Has(domain.ScreenMain, u, prefs, "Масса") {
		t.Fatal("profile button must not leak onto the main screen")
	}
}

func TestMarkupInlineForActionScreens(t *testing.T) {
	u := testUser()
	u.Cursor.Editing = "Отжимания"
	prefs := domain.DefaultPrefs()
	m := Markup(domain.ScreenExerciseActionsExtended, u, prefs)
	if len(m.InlineKeyboard) == 0 {
		t.Fatal("extended actions must be inline")
	}
	last := m.InlineKeyboard[len(m.InlineKeyboard)-1]
	if len(last) != 2 || last[1].Text != texts.BtnDelete {
		t.Fatalf("delete button missing: %+v", last)
	}
	if m2 := Markup(domain.ScreenProfiles, u, prefs); len(m2.InlineKeyboard) != 0 {
		t.Fatal("profiles keyboard must be a reply keyboard")
	}
}
