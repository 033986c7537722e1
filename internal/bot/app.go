// Package bot wires the workout domain to the Telegram runtime: commands,
// the text fallback that drives the navigation machine, capture states and
// inline callbacks.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gymbot/core/bootstrap"
	corecmd "github.com/m3rciful/gymbot/core/cmd"
	coreconfig "github.com/m3rciful/gymbot/core/config"
	"github.com/m3rciful/gymbot/core/logger"
	coretelegram "github.com/m3rciful/gymbot/core/telegram"
	"github.com/m3rciful/gymbot/core/telegram/commands"
	"github.com/m3rciful/gymbot/core/telegram/middleware"
	"github.com/m3rciful/gymbot/core/telegram/router"
	"github.com/m3rciful/gymbot/core/telegram/state"
	"github.com/m3rciful/gymbot/core/telegram/ui"
	"github.com/m3rciful/gymbot/internal/menu"
	"github.com/m3rciful/gymbot/internal/store"
	"github.com/m3rciful/gymbot/internal/texts"
)

// AppConfig carries the core configuration for the cmd runner.
type AppConfig struct {
	core *coreconfig.Config
}

// LoadConfig reads the YAML config and environment overrides.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &AppConfig{core: cfg}, nil
}

// CoreConfig implements corecmd.ConfigCarrier.
func (a *AppConfig) CoreConfig() *coreconfig.Config {
	return a.core
}

// App owns the live store and the per-user conversation state.
type App struct {
	cfg   *coreconfig.Config
	store *store.Store
	fsm   state.Manager
}

// Bootstrap initializes logging, opens the document store and builds the app.
// It is plugged into corecmd.Run.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()
	res, err := bootstrap.Run(bootstrap.Options{
		Config: cfg,
		OpenStore: func(sc coreconfig.StorageConfig) (bootstrap.Storage, error) {
			return store.Open(sc)
		},
		Seeders: []bootstrap.Seeder{bootstrap.SeederFunc(seedCatalog)},
	})
	if err != nil {
		return nil, err
	}
	st, ok := res.Store.(*store.Store)
	if !ok {
		return nil, fmt.Errorf("bootstrap returned unexpected store type %T", res.Store)
	}
	return New(cfg, st), nil
}

// seedCatalog merges catalog entries added since the prefs document was last
// written, so upgrades surface new exercises without manual file edits.
func seedCatalog(_ context.Context, storage bootstrap.Storage) error {
	st, ok := storage.(*store.Store)
	if !ok {
		return nil
	}
	if added := st.SeedCatalog(); added > 0 {
		logger.Info(logger.Background(), "store", "store.catalog.seeded",
			slog.String("status", "ok"),
			slog.Int("added", added),
		)
	}
	return nil
}

// New builds the app around an opened store.
func New(cfg *coreconfig.Config, st *store.Store) *App {
	a := &App{
		cfg:   cfg,
		store: st,
		fsm:   state.NewMemoryManager(),
	}
	a.registerCaptureStates()
	return a
}

// IsAdmin accepts ids from the static config and from the prefs document.
func (a *App) IsAdmin(id int64) bool {
	return a.cfg.IsAdmin(id) || a.store.IsAdmin(id)
}

// TelegramRunOptions assembles the registry, routes and lifecycle hooks for
// the core Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	// Plain "start" and "начать" also resolve here through the text route.
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Главное меню",
		Aliases:     []string{"начать"},
	})
	reg.RegisterCommand("/version", commands.Command{
		Handler:     a.handleVersion,
		Description: "Объявить версию",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Статистика",
		AdminOnly:   true,
		Hidden:      true,
	})
	var fallback ui.FallbackProvider = a
	reg.SetTextFallback(fallback.UnknownText())

	if err := reg.RegisterCallback(menuCallbackKey, a.handleMenuCallback); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(menu.CallbackRemoveExercise, a.handleRemoveExercise); err != nil {
		return coretelegram.RunOptions{}, err
	}

	rec := middleware.RecoverWith(middleware.RecoverOptions{
		Apology: texts.Apology,
		Report:  a.reportToMaintainers,
	})
	gate := middleware.MaintenanceMiddleware(middleware.MaintenanceOptions{
		Disabled: func() bool { return a.cfg.Telegram.Disabled },
		IsAdmin:  a.IsAdmin,
		OnDisabled: func(c tele.Context) error {
			return c.Send(texts.Maintenance)
		},
	})

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin: a.IsAdmin,
		Recover: rec,
	})
	routes = append(routes, router.TextRoutes(a.fsm, reg, router.TextOptions{
		Recover: rec,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{
		NotFound: fallback.UnknownCallback(),
		Recover:  rec,
	}))

	// The maintenance gate is a global middleware so callbacks and commands
	// are covered, not just free text.
	mws := append(coretelegram.DefaultMiddlewares(a.cfg, nil),
		coretelegram.Middleware{Name: "maintenance", Use: gate})

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: mws,
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, _ coretelegram.Runtime) error {
	if err := a.store.Save(ctx); err != nil {
		return fmt.Errorf("startup save: %w", err)
	}
	if err := a.store.StartAutosave(ctx, a.cfg.Storage.AutosaveIntervalSeconds); err != nil {
		return err
	}
	a.logPendingAnnouncement(ctx)
	return nil
}

func (a *App) onStop(ctx context.Context, _ coretelegram.Runtime) error {
	return a.store.Close(ctx)
}

// reportToMaintainers forwards a panic report to every configured admin.
// Sent directly, not through the dispatcher: the process may be unwinding.
func (a *App) reportToMaintainers(c tele.Context, report string) {
	if len(report) > 3500 {
		report = report[:3500] + "\n…"
	}
	for _, id := range a.cfg.Telegram.AdminIDs {
		if _, err := c.Bot().Send(&tele.User{ID: id}, report); err != nil {
			logger.Error(logger.Background(), "tg", "tg.report.failed",
				slog.String("status", "fail"),
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
		}
	}
}
