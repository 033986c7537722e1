package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	coreconfig "github.com/m3rciful/gymbot/core/config"
	"github.com/m3rciful/gymbot/internal/domain"
)

func testConfig(t *testing.T) coreconfig.StorageConfig {
	t.Helper()
	return coreconfig.StorageConfig{
		Dir:                     t.TempDir(),
		UsersFile:               "users.json",
		PrefsFile:               "prefs.json",
		BackupDir:               "backups",
		BackupRetentionDays:     14,
		AutosaveIntervalSeconds: 300,
	}
}

func TestOpenCreatesMissingFiles(t *testing.T) {
	cfg := testConfig(t)
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Dir, cfg.UsersFile))
	if err != nil {
		t.Fatalf("users file missing: %v", err)
	}
	if strings.TrimSpace(string(data)) != "{}" {
		t.Fatalf("fresh users doc = %q", data)
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir, cfg.PrefsFile)); err != nil {
		t.Fatalf("prefs file missing: %v", err)
	}
	var got int
	s.ViewPrefs(func(p *domain.BotPrefs) { got = len(p.Catalog) })
	if got != 11 {
		t.Fatalf("seed catalog = %d", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Ensure(42, "Иван", "Петров")
	if err := s.Mutate(42, func(u *domain.User, p *domain.BotPrefs) {
		u.AddProfile("Масса")
		u.AddDay()
		u.AddExerciseToCurrentDay("Отжимания")
		ex := u.Exercise("Отжимания")
		ex.Main = domain.Approaches{Amount: 3, Repetitions: 12, Weight: 7.5}
		ex.Note = "до отказа"
		u.LastScreen = domain.ScreenExercises
	}); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var loaded domain.User
	if err := reopened.Mutate(42, func(u *domain.User, p *domain.BotPrefs) {
		loaded = *u
	}); err != nil {
		t.Fatalf("user not loaded: %v", err)
	}
	if loaded.FirstName != "Иван" || len(loaded.Profiles) != 1 {
		t.Fatalf("loaded user: %+v", loaded)
	}
	ex := loaded.Exercises["Отжимания"]
	if ex == nil || ex.Main.Weight != 7.5 || ex.Note != "до отказа" {
		t.Fatalf("loaded exercise: %+v", ex)
	}
	if loaded.LastScreen != domain.ScreenExercises {
		t.Fatalf("last screen = %q", loaded.LastScreen)
	}
}

func TestSaveIsDeterministic(t *testing.T) {
	cfg := testConfig(t)
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Ensure(1, "A", "")
	s.Ensure(2, "B", "")
	ctx := context.Background()
	if err := s.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, _ := os.ReadFile(filepath.Join(cfg.Dir, cfg.UsersFile))
	if err := s.Save(ctx); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second, _ := os.ReadFile(filepath.Join(cfg.Dir, cfg.UsersFile))
	if !bytes.Equal(first, second) {
		t.Fatal("unchanged state should serialize byte-identically")
	}
}

func TestOpenQuarantinesCorruptUsers(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Dir, cfg.UsersFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open should recover, got %v", err)
	}
	users, _, _ := s.Stats()
	if users != 0 {
		t.Fatalf("corrupt doc should yield empty store, got %d users", users)
	}
	matches, _ := filepath.Glob(path + ".corrupt-*")
	if len(matches) != 1 {
		t.Fatalf("expected one quarantined file, got %v", matches)
	}
	kept, _ := os.ReadFile(matches[0])
	if string(kept) != "{not json" {
		t.Fatalf("quarantined bytes altered: %q", kept)
	}
	fresh, _ := os.ReadFile(path)
	if strings.TrimSpace(string(fresh)) != "{}" {
		t.Fatalf("users doc not reset: %q", fresh)
	}
}

func TestOpenQuarantinesCorruptPrefs(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Dir, cfg.PrefsFile)
	if err := os.WriteFile(path, []byte(`["wrong shape"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open should recover, got %v", err)
	}
	var got int
	s.ViewPrefs(func(p *domain.BotPrefs) { got = len(p.Catalog) })
	if got != 11 {
		t.Fatalf("prefs should reset to defaults, catalog = %d", got)
	}
	matches, _ := filepath.Glob(path + ".corrupt-*")
	if len(matches) != 1 {
		t.Fatalf("expected quarantined prefs, got %v", matches)
	}
}

func TestSaveWritesBackupAndPrunes(t *testing.T) {
	cfg := testConfig(t)
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	backupDir := filepath.Join(cfg.Dir, cfg.BackupDir)
	stale := filepath.Join(backupDir, "20200101_120000_"+cfg.UsersFile)
	if err := os.WriteFile(stale, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	foreign := filepath.Join(backupDir, "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	s.Ensure(7, "X", "")
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale backup should be pruned")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatal("files without a timestamp prefix must be left alone")
	}
	entries, _ := os.ReadDir(backupDir)
	var fresh int
	for _, e := range entries {
		if _, ok := backupTimestamp(e.Name()); ok {
			fresh++
		}
	}
	if fresh != 1 {
		t.Fatalf("expected one fresh backup, entries: %v", entries)
	}
}

func TestBackupTimestamp(t *testing.T) {
	ts, ok := backupTimestamp("20250102_030405_users.json")
	if !ok {
		t.Fatal("valid name rejected")
	}
	if ts.Year() != 2025 || ts.Minute() != 4 {
		t.Fatalf("parsed %v", ts)
	}
	for _, name := range []string{"users.json", "notes.txt", "2025_users.json", "20250102-030405_users.json"} {
		if _, ok := backupTimestamp(name); ok {
			t.Fatalf("%q should not parse", name)
		}
	}
}

func TestSeedCatalogFillsOlderPrefs(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Dir, cfg.PrefsFile)
	if err := os.WriteFile(path, []byte(`{"exercises": [], "admins": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if added := s.SeedCatalog(); added != 11 {
		t.Fatalf("added = %d, want 11", added)
	}
	if !s.Dirty() {
		t.Fatal("seeding must mark the store dirty")
	}
	if s.SeedCatalog() != 0 {
		t.Fatal("repeat seeding should add nothing")
	}
}

func TestMutateUnknownUser(t *testing.T) {
	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Mutate(999, func(u *domain.User, p *domain.BotPrefs) {}); err == nil {
		t.Fatal("mutate of unknown user should fail")
	}
}

func TestMutateSerializesPerUser(t *testing.T) {
	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Ensure(1, "A", "")
	s.Ensure(2, "B", "")

	const perUser = 50
	var wg sync.WaitGroup
	for _, id := range []int64{1, 2} {
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			go func(id int64, i int) {
				defer wg.Done()
				err := s.Mutate(id, func(u *domain.User, p *domain.BotPrefs) {
					u.AddProfile(fmt.Sprintf("p%d", i))
				})
				if err != nil {
					t.Errorf("mutate %d: %v", id, err)
				}
			}(id, i)
		}
	}
	// Readers and a save run alongside the mutations.
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Stats()
		if err := s.Save(context.Background()); err != nil {
			t.Errorf("save: %v", err)
		}
	}()
	wg.Wait()

	for _, id := range []int64{1, 2} {
		if err := s.Mutate(id, func(u *domain.User, p *domain.BotPrefs) {
			if len(u.Profiles) != perUser {
				t.Errorf("user %d profiles = %d, want %d", id, len(u.Profiles), perUser)
			}
		}); err != nil {
			t.Fatalf("mutate %d: %v", id, err)
		}
	}
}

func TestDirtyTracking(t *testing.T) {
	s, err := Open(testConfig(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Dirty() {
		t.Fatal("fresh store should be clean")
	}
	s.Ensure(1, "A", "")
	if !s.Dirty() {
		t.Fatal("ensure should mark dirty")
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Dirty() {
		t.Fatal("save should clear dirty")
	}
}
