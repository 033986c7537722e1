package bootstrap

import (
	"context"
	"fmt"

	coreconfig "github.com/m3rciful/gymbot/core/config"
	"github.com/m3rciful/gymbot/core/logger"
)

// Storage is the minimal contract the bootstrap pipeline needs from a
// document store: it must be savable on demand and closable on shutdown.
type Storage interface {
	Save(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	// OpenStore loads the persistent documents and returns the live store.
	OpenStore func(coreconfig.StorageConfig) (Storage, error)

	// Seeders run once after the store is opened, in order.
	Seeders []Seeder
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	Store Storage
}

// Run initializes the logger, opens the document store, and runs seeders.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.OpenStore == nil {
		return nil, fmt.Errorf("bootstrap: OpenStore is required")
	}
	store, err := opts.OpenStore(opts.Config.Storage)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: store initialization failed: %w", err)
	}

	ctx := context.Background()
	for _, seeder := range opts.Seeders {
		if seeder == nil {
			continue
		}
		if err := seeder.Seed(ctx, store); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("bootstrap: seeding failed: %w", err)
		}
	}

	return &Result{Store: store}, nil
}
