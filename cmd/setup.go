package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/carvy/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase writes the example config when none exists, then opens the configured
// store, which creates the data directory or runs the database migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Bool("file") {
			config.Storage.UseDatabase = false
		}
		r.config = config
		r.logger.Info("config file created", "path", configPath)
	}

	target := r.config.Storage.DataDir
	if r.config.Storage.UseDatabase {
		target = r.config.Database.URL
		r.logger.Info("initializing database", "driver", r.config.Database.Driver)
	} else {
		r.logger.Info("initializing file store", "dir", target)
	}

	if _, err := r.services(); err != nil {
		return err
	}

	r.logger.Info("setup complete", "backend", r.store.Backend)
	return r.writePlain("✓ Storage ready (%s: %s)\n", r.store.Backend, target)
}
