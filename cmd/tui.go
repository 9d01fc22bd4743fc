package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/carvy/internal/formatter"
	"github.com/desertthunder/carvy/internal/services"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/desertthunder/carvy/internal/ui"
	"github.com/urfave/cli/v3"
)

// Menu launches the interactive dealership browser.
func (r *Runner) Menu(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger("./tmp/carvy-menu.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	r.SetLogger(fileLogger)

	svc, err := r.services()
	if err != nil {
		return err
	}

	model := ui.NewModel(fmt.Sprintf("Dealership (%s store)", r.store.Backend), menuEntries(svc))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running menu: %w", err)
	}

	return nil
}

func menuEntries(svc *services.Services) []ui.Entry {
	return []ui.Entry{
		{
			Name:    "Cars",
			Summary: "Every car in stock",
			Load: func() (formatter.Listing, error) {
				cars, err := svc.Cars.List()
				return formatter.Cars(cars), err
			},
		},
		{
			Name:    "Available cars",
			Summary: "Cars that can be sold or leased",
			Load: func() (formatter.Listing, error) {
				cars, err := svc.Cars.Available()
				return formatter.Cars(cars), err
			},
		},
		{
			Name:    "Clients",
			Summary: "Buyers and lessees",
			Load: func() (formatter.Listing, error) {
				clients, err := svc.Clients.List()
				return formatter.Clients(clients), err
			},
		},
		{
			Name:    "Employees",
			Summary: "Dealership staff",
			Load: func() (formatter.Listing, error) {
				employees, err := svc.Employees.List()
				return formatter.Employees(employees), err
			},
		},
		{
			Name:    "Leasings",
			Summary: "Leasing contracts with their car and client",
			Load: func() (formatter.Listing, error) {
				leasings, err := svc.Leasings.List()
				return formatter.Leasings(leasings), err
			},
		},
		{
			Name:    "Transactions",
			Summary: "Recorded sales and leases",
			Load: func() (formatter.Listing, error) {
				transactions, err := svc.Transactions.List()
				return formatter.Transactions(transactions), err
			},
		},
	}
}
