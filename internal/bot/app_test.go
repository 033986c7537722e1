package bot

import (
	"testing"

	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/gymbot/core/config"
	"github.com/m3rciful/gymbot/internal/domain"
	"github.com/m3rciful/gymbot/internal/session"
	"github.com/m3rciful/gymbot/internal/store"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := &coreconfig.Config{}
	cfg.Telegram.AdminIDs = []int64{10}
	cfg.Storage = coreconfig.StorageConfig{
		Dir:                     t.TempDir(),
		UsersFile:               "users.json",
		PrefsFile:               "prefs.json",
		BackupDir:               "backups",
		BackupRetentionDays:     7,
		AutosaveIntervalSeconds: 60,
	}
	st, err := store.Open(cfg.Storage)
	require.NoError(t, err)
	return New(cfg, st)
}

func TestIsAdminMergesConfigAndPrefs(t *testing.T) {
	a := testApp(t)
	require.True(t, a.IsAdmin(10), "config admin")
	require.False(t, a.IsAdmin(20))

	a.store.MutatePrefs(func(p *domain.BotPrefs) {
		p.Admins = []int64{20}
	})
	require.True(t, a.IsAdmin(20), "prefs admin")
}

func TestTelegramRunOptionsWiring(t *testing.T) {
	a := testApp(t)
	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	require.Same(t, a.cfg, opts.Config)
	require.NotNil(t, opts.Registry)

	names := make(map[string]bool)
	for _, c := range opts.Registry.ListCommands(false) {
		names[c.Text] = true
	}
	require.True(t, names["start"] || names["/start"], "start command registered, got %v", names)

	require.NotNil(t, opts.Registry.TextFallback())
	_, ok := opts.Registry.GetCallback(menuCallbackKey)
	require.True(t, ok, "menu callback registered")
	_, ok = opts.Registry.GetCallback("remove_exercise")
	require.True(t, ok, "remove_exercise callback registered")

	// command + admin commands + text + callback routes
	require.GreaterOrEqual(t, len(opts.Routes), 5)
	require.NotNil(t, opts.OnStart)
	require.NotNil(t, opts.OnStop)
}

func TestAwaitStateNamespacing(t *testing.T) {
	seen := make(map[string]bool)
	for _, aw := range captureStates {
		st := string(awaitState(aw))
		require.True(t, len(st) > len(awaitStatePrefix))
		require.False(t, seen[st], "duplicate state %s", st)
		seen[st] = true
	}
	require.Len(t, seen, 9, "every capture sub-state must be registered")
	require.Contains(t, seen, "await:"+string(session.AwaitMainWeight))
}
