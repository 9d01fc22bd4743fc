package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/formatter"
	"github.com/desertthunder/carvy/internal/repositories"
	"github.com/desertthunder/carvy/internal/services"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	store  *repositories.Store
	svc    *services.Services
	logger *log.Logger
	output io.Writer
	runID  string
	owned  bool
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag before the first command runs. A nil
// Store is opened from the configuration the first time a command needs it.
type RunnerOpts struct {
	Config *shared.Config
	Store  *repositories.Store
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config: opts.Config,
		store:  opts.Store,
		logger: opts.Logger,
		output: opts.Output,
		runID:  shared.GenerateID(),
	}
	r.logger = shared.WithLogger(r.logger, "run", r.runID[:8])

	if r.store != nil {
		r.svc = services.New(r.store, r.terms(), r.logger)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, carsCommand, clientsCommand, employeesCommand, leasingsCommand, transactionsCommand,
		exportCommand, serveCommand, menuCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Bootstrap loads the configuration named by --config and applies the global flags.
// A missing config file falls back to the defaults so that `setup database` can create it.
func (r *Runner) Bootstrap(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		path := cmd.String("config")
		config, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.config = config
		case errors.Is(err, os.ErrNotExist):
			r.logger.Debug("config file not found, using defaults", "path", path)
			r.config = shared.DefaultConfig()
		default:
			return ctx, err
		}
	}

	if cmd.Bool("file") {
		r.config.Storage.UseDatabase = false
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	if err := shared.ApplyLogLevel(r.logger, level); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// Shutdown closes a store opened by the runner.
func (r *Runner) Shutdown(ctx context.Context, cmd *cli.Command) error {
	if !r.owned || r.store == nil {
		return nil
	}
	store := r.store
	r.store, r.svc, r.owned = nil, nil, false
	if err := store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}

// services opens the configured store on first use.
func (r *Runner) services() (*services.Services, error) {
	if r.svc != nil {
		return r.svc, nil
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}

	store, err := repositories.Open(r.config, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	r.logger.Debug("store opened", "backend", store.Backend)

	r.store, r.owned = store, true
	r.svc = services.New(store, r.terms(), r.logger)
	return r.svc, nil
}

func (r *Runner) terms() shared.LeasingConfig {
	if r.config == nil {
		return shared.DefaultConfig().Leasing
	}
	return r.config.Leasing
}

// SetLogger replaces the runner's logger, e.g. while the menu owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = shared.WithLogger(l, "run", r.runID[:8])
}

// writeListing prints l, or data as JSON when --json is set. With --output the
// listing is exported to a file instead.
func (r *Runner) writeListing(cmd *cli.Command, l formatter.Listing, data any) error {
	if cmd.Bool("json") {
		return r.writeJSON(data, cmd.Bool("pretty"))
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if f == formatter.FormatTable {
			f = formatter.FormatText
		}
		written, err := formatter.WriteExport(l, f, path)
		if err != nil {
			return err
		}
		r.logger.Info("listing exported", "path", written, "rows", l.Len())
		return r.writePlain("Exported %d %s to %s\n", l.Len(), l.Title, written)
	}

	return formatter.Render(r.output, l, f)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.ToJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// idArg parses the positional argument name as an entity id.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: <%s> must be a positive integer, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}
