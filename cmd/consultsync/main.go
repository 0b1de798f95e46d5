// Command consultsync plays recorded clinical consultations with a
// synchronised transcript and clinical insights.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/consultsync/internal/adapters/driven/audiofile"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/bundle"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/device/simulated"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/consultsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/consultsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/consultsync/internal/core/domain"
	"github.com/custodia-labs/consultsync/internal/core/ports/driven"
	"github.com/custodia-labs/consultsync/internal/core/services"
	"github.com/custodia-labs/consultsync/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires driven adapters into the core services.
func bootstrap(_ context.Context, ephemeral bool) (*cli.Services, error) {
	var configStore driven.ConfigStore
	if ephemeral {
		configStore = memory.NewConfigStore()
	} else {
		store, err := file.NewConfigStore("")
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		configStore = store
	}
	logger.Debug("config: %s", configStore.Path())

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var recordings driven.RecordingStore
	closeStore := func() error { return nil }

	backend := settings.Storage.Backend
	if ephemeral {
		backend = domain.StoreMemory
	}
	switch backend {
	case domain.StoreMemory:
		recordings = memory.NewRecordingStore()
	case domain.StoreSQLite:
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening library: %w", err)
		}
		logger.Debug("library: %s", store.Path())
		recordings = store.RecordingStore()
		closeStore = store.Close
	default:
		return nil, fmt.Errorf("unsupported store backend %q", backend)
	}
	logger.Info("library store: %s", backend.Description())

	library := services.NewLibraryService(recordings, bundle.NewLoader(), audiofile.NewProbe())
	player := services.NewPlayer(simulated.Factory(settings.Player.TickInterval), settings.Player)

	return &cli.Services{
		Library:  library,
		Sessions: player,
		Settings: settingsService,
		Close:    closeStore,
	}, nil
}
