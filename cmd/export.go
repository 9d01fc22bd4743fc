package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/desertthunder/carvy/internal/server"
	"github.com/desertthunder/carvy/internal/services"
	"github.com/desertthunder/carvy/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes every collection to a directory and prints progress as each one finishes.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, 16)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := tasks.BulkExport(ctx, prog, tasks.Sources(svc), tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-printed

	if err != nil {
		return err
	}

	r.logger.Info("export finished", "dir", result.OutputDirectory, "ok", result.Successful, "failed", result.Failed)
	r.writePlainln("✓ Exported %d of %d collections to %s", result.Successful, result.Total, result.OutputDirectory)
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d collections failed to export", result.Failed, result.Total)
	}
	return nil
}

// Serve runs the read-only listing API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r.router(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("serving listings at http://%s/api", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	r.writePlain("→ Serving listings at http://%s/api (Ctrl+C to stop)\n", addr)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}
	return nil
}

func (r *Runner) router(svc *services.Services) *server.BasicRouter {
	router := server.NewBasicRouter()
	router.Use(server.Recoverer(r.logger), server.RequestLogger(r.logger))
	router.Handler(server.HealthHandler{Backend: r.store.Backend})
	router.Handler(server.NewListingHandler(r.logger,
		server.Collection{Name: "cars", List: listAs(svc.Cars.List), Find: findAs(svc.Cars.Find)},
		server.Collection{Name: "clients", List: listAs(svc.Clients.List), Find: findAs(svc.Clients.Find)},
		server.Collection{Name: "employees", List: listAs(svc.Employees.List), Find: findAs(svc.Employees.Find)},
		server.Collection{Name: "leasings", List: listAs(svc.Leasings.List), Find: findAs(svc.Leasings.Find)},
		server.Collection{Name: "transactions", List: listAs(svc.Transactions.List), Find: findAs(svc.Transactions.Find)},
	))
	return router
}

func listAs[T any](list func() ([]*T, error)) func() (any, error) {
	return func() (any, error) { return list() }
}

func findAs[T any](find func(int64) (*T, error)) func(int64) (any, error) {
	return func(id int64) (any, error) { return find(id) }
}
