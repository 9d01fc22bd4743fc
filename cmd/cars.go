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

// CarsAdd stores a new car from the command flags.
func (r *Runner) CarsAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}

	status, err := models.ParseCarStatus(cmd.String("status"))
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}

	car := &models.Car{
		Brand:   cmd.String("brand"),
		Model:   cmd.String("model"),
		Year:    cmd.Int("year"),
		Price:   float32(cmd.Float("price")),
		Mileage: cmd.Int("mileage"),
		Status:  status,
	}
	if err := svc.Cars.Add(car); err != nil {
		return err
	}
	return r.writePlain("✓ Added car #%d: %s %s (%d)\n", car.CarID, car.Brand, car.Model, car.Year)
}

func (r *Runner) CarsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	cars, err := svc.Cars.List()
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Cars(cars), cars)
}

func (r *Runner) CarsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	car, err := svc.Cars.Find(id)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Cars([]*models.Car{car}), car)
}

func (r *Runner) CarsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	if err := svc.Cars.Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted car #%d\n", id)
}

// CarsSell sells the car to --client and records the sale.
func (r *Runner) CarsSell(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	tx, err := svc.Cars.Sell(id, cmd.Int64("client"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ Sold car #%d to client #%d (transaction #%d)\n", tx.CarID, tx.ClientID, tx.TransactionID)
}

// CarsLease leases the car to --client; it is `leasings add` with a positional car id.
func (r *Runner) CarsLease(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	return r.lease(cmd, id)
}

func (r *Runner) CarsAvailable(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	cars, err := svc.Cars.Available()
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Cars(cars), cars)
}

func (r *Runner) CarsSearch(ctx context.Context, cmd *cli.Command) error {
	term := cmd.StringArg("term")
	if term == "" {
		return fmt.Errorf("%w: <term>", shared.ErrMissingArgument)
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	cars, err := svc.Cars.Search(term)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Cars(cars), cars)
}

func (r *Runner) CarsSort(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	cars, err := svc.Cars.Sorted(cmd.String("by"), cmd.Bool("desc"))
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Cars(cars), cars)
}

func (r *Runner) CarsFilter(ctx context.Context, cmd *cli.Command) error {
	f := services.CarFilter{
		MaxPrice: float32(cmd.Float("max-price")),
		MinYear:  cmd.Int("min-year"),
	}
	if raw := cmd.String("status"); raw != "" {
		status, err := models.ParseCarStatus(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
		}
		f.Status = status
	}

	svc, err := r.services()
	if err != nil {
		return err
	}
	cars, err := svc.Cars.Filter(f)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Cars(cars), cars)
}
