package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/carvy/internal/formatter"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/services"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/urfave/cli/v3"
)

func leaseRequest(cmd *cli.Command, carID int64) services.LeaseRequest {
	return services.LeaseRequest{
		CarID:          carID,
		ClientID:       cmd.Int64("client"),
		DurationMonths: cmd.Int("months"),
		InterestRate:   float32(cmd.Float("rate")),
		DownPayment:    float32(cmd.Float("down")),
	}
}

func (r *Runner) lease(cmd *cli.Command, carID int64) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	leasing, err := svc.Leasings.Add(leaseRequest(cmd, carID))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(leasing, cmd.Bool("pretty"))
	}
	r.writePlain("✓ Created leasing #%d\n", leasing.LeasingID)
	return r.writeListing(cmd, formatter.Leasings([]*models.Leasing{leasing}), leasing)
}

func (r *Runner) LeasingsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.lease(cmd, cmd.Int64("car"))
}

// LeasingsEstimate prints the quote for the requested terms.
func (r *Runner) LeasingsEstimate(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	quote, err := svc.Leasings.Estimate(leaseRequest(cmd, cmd.Int64("car")))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(quote, cmd.Bool("pretty"))
	}

	loyalty := "no"
	if quote.LoyaltyApplied {
		loyalty = "yes"
	}
	l := formatter.Listing{
		Title:   "Quote",
		Headers: []string{"Financed", "Monthly", "Total", "Loyalty discount"},
		Rows: [][]string{{
			fmt.Sprintf("%.2f", quote.Principal),
			fmt.Sprintf("%.2f", quote.MonthlyRate),
			fmt.Sprintf("%.2f", quote.TotalAmount),
			loyalty,
		}},
	}
	return r.writeListing(cmd, l, quote)
}

func (r *Runner) LeasingsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	var leasings []*models.Leasing
	if client := cmd.Int64("client"); client > 0 {
		leasings, err = svc.Leasings.ByClient(client)
	} else {
		leasings, err = svc.Leasings.List()
	}
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Leasings(leasings), leasings)
}

func (r *Runner) LeasingsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	leasing, err := svc.Leasings.Find(id)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Leasings([]*models.Leasing{leasing}), leasing)
}

func (r *Runner) LeasingsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	if err := svc.Leasings.Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted leasing #%d\n", id)
}

func (r *Runner) TransactionsAdd(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseTransactionType(cmd.String("type"))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}
	svc, err := r.services()
	if err != nil {
		return err
	}

	tx := &models.Transaction{
		CarID:           cmd.Int64("car"),
		ClientID:        cmd.Int64("client"),
		TransactionType: kind,
		TransactionDate: cmd.Timestamp("date"),
	}
	if err := svc.Transactions.Add(tx); err != nil {
		return err
	}
	return r.writePlain("✓ Recorded transaction #%d (%s)\n", tx.TransactionID, tx.TransactionType)
}

func (r *Runner) TransactionsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	var transactions []*models.Transaction
	if client := cmd.Int64("client"); client > 0 {
		transactions, err = svc.Transactions.ByClient(client)
	} else {
		transactions, err = svc.Transactions.List()
	}
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Transactions(transactions), transactions)
}

func (r *Runner) TransactionsByType(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("type")
	if raw == "" {
		return fmt.Errorf("%w: <type>", shared.ErrMissingArgument)
	}
	kind, err := models.ParseTransactionType(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	transactions, err := svc.Transactions.ByType(kind)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Transactions(transactions), transactions)
}
