package main

import (
	"context"
	"fmt"
	"os"

	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
	"github.com/adityasissodiya/campuspodcastlite/internal/storage"
	"github.com/urfave/cli/v3"
)

// Setup writes a config file from the embedded defaults (keeping an existing one) and creates
// the upload directory it names.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}

	lib, err := storage.NewLibrary(config.Storage.Path, config.Storage.AllowedExtensions)
	if err != nil {
		return err
	}
	r.logger.Info("storage ready", "path", lib.Root())

	return r.writePlain("✓ Config: %s\n✓ Storage: %s\nRun 'castlite serve -c %s' to start the server\n",
		configPath, lib.Root(), configPath)
}
