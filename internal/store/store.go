// Package store keeps the users and prefs documents in memory and persists
// them as pretty-printed JSON files. Mutations serialize per user id, so
// updates for different users proceed in parallel.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	coreconfig "github.com/m3rciful/gymbot/core/config"
	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/internal/domain"
)

const quarantineTimeLayout = "20060102_150405"

// Store owns the two persisted documents. Open loads them, Save writes them
// back, and the autosave cron flushes dirty state periodically.
type Store struct {
	// mu guards the documents as a whole: held shared by per-user
	// mutations, exclusively by prefs writes, stats and serialization.
	mu    sync.RWMutex
	cfg   coreconfig.StorageConfig
	users map[int64]*domain.User
	prefs *domain.BotPrefs
	dirty atomic.Bool

	locksMu   sync.Mutex
	userLocks map[int64]*sync.Mutex

	cron cronRunner
}

// Open loads both documents from cfg.Dir, creating missing files with
// defaults. A file that exists but does not parse is quarantined under a
// timestamped name and replaced with defaults; user data is never silently
// overwritten in place.
func Open(cfg coreconfig.StorageConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(cfg.Dir, cfg.BackupDir), 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	s := &Store{
		cfg:       cfg,
		users:     make(map[int64]*domain.User),
		userLocks: make(map[int64]*sync.Mutex),
	}

	var raw map[string]*domain.User
	if err := loadDoc(s.usersPath(), &raw, func() map[string]*domain.User {
		return map[string]*domain.User{}
	}); err != nil {
		return nil, err
	}
	for key, u := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil || u == nil {
			logger.Warn(logger.Background(), "store", "store.load.bad_user_key",
				slog.String("status", "skip"),
				slog.String("cause", key),
			)
			continue
		}
		u.ID = id
		if u.Exercises == nil {
			u.Exercises = make(map[string]*domain.UserExercise)
		}
		if !u.LastScreen.Known() {
			u.LastScreen = domain.ScreenMain
		}
		u.ClampCursor()
		s.users[id] = u
	}

	var prefs *domain.BotPrefs
	if err := loadDoc(s.prefsPath(), &prefs, domain.DefaultPrefs); err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = domain.DefaultPrefs()
	}
	s.prefs = prefs

	logger.Info(logger.Background(), "store", "store.loaded",
		slog.String("status", "ok"),
		slog.Int("users", len(s.users)),
		slog.Int("catalog", len(s.prefs.Catalog)),
	)
	return s, nil
}

// loadDoc reads one JSON document into v. A missing file is created from
// defaults. A file that does not parse into the expected shape is renamed
// aside under a timestamped name and replaced with defaults; user data is
// never silently overwritten in place.
func loadDoc[T any](path string, v *T, defaults func() T) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		*v = defaults()
		logger.Info(logger.Background(), "store", "store.load.created",
			slog.String("status", "ok"),
			slog.String("path", path),
		)
		return writeFileAtomic(path, mustEncode(*v))
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	decoded := defaults()
	if uerr := json.Unmarshal(data, &decoded); uerr != nil {
		aside := path + ".corrupt-" + time.Now().Format(quarantineTimeLayout)
		if renameErr := os.Rename(path, aside); renameErr != nil {
			return fmt.Errorf("quarantine %s: %w", path, renameErr)
		}
		logger.Error(logger.Background(), "store", "store.load.quarantined",
			slog.String("status", "fail"),
			slog.String("err", uerr.Error()),
			slog.String("err_code", "DOC_CORRUPT"),
			slog.String("path", aside),
		)
		*v = defaults()
		return writeFileAtomic(path, mustEncode(*v))
	}
	*v = decoded
	return nil
}

// Ensure creates the user on first contact and keeps the display name fresh.
// It reports whether a new account was created.
func (s *Store) Ensure(id int64, firstName, lastName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		if firstName != "" && (u.FirstName != firstName || u.LastName != lastName) {
			u.FirstName = firstName
			u.LastName = lastName
			s.dirty.Store(true)
		}
		return false
	}
	s.users[id] = domain.NewUser(id, firstName, lastName)
	s.dirty.Store(true)
	return true
}

// lockFor returns the mutex serializing mutations for one user id.
func (s *Store) lockFor(id int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.userLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[id] = l
	}
	return l
}

// Mutate runs fn with the user and the shared prefs. Mutations for the same
// id serialize on a per-user lock while the store lock is held shared, so
// different users mutate in parallel. The user must exist; call Ensure
// first. Any call marks the state dirty. fn must not modify prefs.
func (s *Store) Mutate(id int64, fn func(u *domain.User, p *domain.BotPrefs)) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("unknown user %d", id)
	}
	fn(u, s.prefs)
	s.dirty.Store(true)
	return nil
}

// MutatePrefs runs fn on the shared prefs document under the store lock.
func (s *Store) MutatePrefs(fn func(p *domain.BotPrefs)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.prefs)
	s.dirty.Store(true)
}

// ViewPrefs runs fn on the prefs document under a read lock. fn must not
// retain or mutate the document.
func (s *Store) ViewPrefs(fn func(p *domain.BotPrefs)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.prefs)
}

// SeedCatalog merges catalog entries shipped with this build into a prefs
// document persisted by an older release. It returns the number added.
func (s *Store) SeedCatalog() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.prefs.MergeDefaultCatalog()
	if added > 0 {
		s.dirty.Store(true)
	}
	return added
}

// IsAdmin reports whether the id is listed in the prefs admin set.
func (s *Store) IsAdmin(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.IsAdmin(id)
}

// Stats returns aggregate counts for the admin summary.
func (s *Store) Stats() (users, profiles, days int) {
	// Exclusive: in-flight mutations hold the lock shared.
	s.mu.Lock()
	defer s.mu.Unlock()
	users = len(s.users)
	for _, u := range s.users {
		profiles += len(u.Profiles)
		for _, p := range u.Profiles {
			days += len(p.Days)
		}
	}
	return users, profiles, days
}

// Dirty reports whether unsaved changes exist.
func (s *Store) Dirty() bool {
	return s.dirty.Load()
}

// Save writes both documents, drops a timestamped copy of the users document
// into the backup folder and prunes copies older than the retention window.
// Serialization is deterministic: the users map marshals with sorted keys and
// a fixed indent, so an unchanged state produces byte-identical files.
func (s *Store) Save(ctx context.Context) error {
	// Exclusive while encoding: in-flight mutations hold the lock shared.
	s.mu.Lock()
	byKey := make(map[string]*domain.User, len(s.users))
	for id, u := range s.users {
		byKey[strconv.FormatInt(id, 10)] = u
	}
	usersData, err := encodeDoc(byKey)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode users: %w", err)
	}
	prefsData, err := encodeDoc(s.prefs)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode prefs: %w", err)
	}
	userCount := len(s.users)
	s.mu.Unlock()

	if err := writeFileAtomic(s.usersPath(), usersData); err != nil {
		return err
	}
	if err := writeFileAtomic(s.prefsPath(), prefsData); err != nil {
		return err
	}
	backup, err := s.backupUsers(usersData)
	if err != nil {
		return err
	}
	removed, err := s.pruneBackups(time.Now())
	if err != nil {
		logger.Warn(ctx, "store", "store.backup.prune_failed",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}

	s.dirty.Store(false)

	logger.Info(ctx, "store", "store.saved",
		slog.String("status", "ok"),
		slog.Int("users", userCount),
		slog.String("backup", filepath.Base(backup)),
		slog.Int("removed", removed),
	)
	return nil
}

// Close stops the autosave cron and performs a final save.
func (s *Store) Close(ctx context.Context) error {
	s.stopAutosave()
	return s.Save(ctx)
}

func (s *Store) usersPath() string {
	return filepath.Join(s.cfg.Dir, s.cfg.UsersFile)
}

func (s *Store) prefsPath() string {
	return filepath.Join(s.cfg.Dir, s.cfg.PrefsFile)
}

// encodeDoc marshals a document the way the files are stored on disk:
// four-space indent, forward slashes kept as-is.
func encodeDoc(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mustEncode(v any) []byte {
	data, err := encodeDoc(v)
	if err != nil {
		panic(err)
	}
	return data
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
