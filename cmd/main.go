package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/carvy/internal/mapper"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatal("command failed", "reason", reason(err), "error", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "carvy",
		Usage:   "Manage a car dealership: stock, clients, staff, leasing and sales",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "file",
				Usage: "Use the CSV file store instead of the database",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.Bootstrap,
		After:    r.Shutdown,
		Commands: r.register(),
	}
}

// reason names the failure category shown next to a command error.
func reason(err error) string {
	var (
		schemaErr  *mapper.SchemaError
		bindingErr *mapper.BindingError
		storageErr *mapper.StorageError
	)
	switch {
	case errors.As(err, &schemaErr):
		return "unmapped entity"
	case errors.As(err, &bindingErr):
		return "value mismatch"
	case errors.As(err, &storageErr):
		return "storage failure"
	case errors.Is(err, shared.ErrNotFound):
		return "not found"
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrInvalidLeasing):
		return "invalid input"
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidFlag):
		return "usage"
	case errors.Is(err, shared.ErrCarUnavailable):
		return "conflict"
	case errors.Is(err, shared.ErrInvalidConfig), errors.Is(err, shared.ErrUnsupportedDriver), errors.Is(err, shared.ErrMissingCredentials):
		return "configuration"
	default:
		return "error"
	}
}
