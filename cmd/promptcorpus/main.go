// Package main is the entry point for the promptcorpus CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/promptcorpus/internal/adapters/driven/config/file"
	"github.com/custodia-labs/promptcorpus/internal/adapters/driven/storage/jsonl"
	"github.com/custodia-labs/promptcorpus/internal/adapters/driving/cli"
	"github.com/custodia-labs/promptcorpus/internal/core/ports/driven"
	"github.com/custodia-labs/promptcorpus/internal/core/services"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cli.SetVersion(fmt.Sprintf("%s (commit: %s)", version, commit))
	cli.SetServiceFactory(buildServices)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// buildServices wires the file-backed adapters into the core services.
func buildServices(configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	settings := services.NewSettingsService(configStore, filepath.Join(configDir, "data"))
	storage := settings.Storage()

	templateRepo, err := openTemplateRepository(storage.TemplateDir)
	if err != nil {
		return nil, err
	}
	store, err := openDatasetStore(storage.CorpusDir)
	if err != nil {
		return nil, err
	}

	datasets := services.NewDatasetService(store)
	return &cli.Services{
		Templates: services.NewTemplateService(templateRepo),
		Datasets:  datasets,
		Corpus:    services.NewCorpusService(datasets, store),
		Settings:  settings,
	}, nil
}

// openTemplateRepository returns a nil interface when no directory is configured.
func openTemplateRepository(dir string) (driven.TemplateRepository, error) {
	if dir == "" {
		return nil, nil
	}
	return file.NewTemplateStore(dir)
}

// openDatasetStore returns a nil interface when no directory is configured.
func openDatasetStore(dir string) (driven.DatasetStore, error) {
	if dir == "" {
		return nil, nil
	}
	return jsonl.NewStore(dir)
}
