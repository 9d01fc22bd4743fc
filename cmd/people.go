package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/carvy/internal/formatter"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/urfave/cli/v3"
)

func personFrom(cmd *cli.Command) models.Person {
	return models.Person{
		FirstName:  cmd.String("first-name"),
		LastName:   cmd.String("last-name"),
		NationalID: cmd.String("national-id"),
	}
}

func (r *Runner) ClientsAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	client := &models.Client{Person: personFrom(cmd)}
	if err := svc.Clients.Add(client); err != nil {
		return err
	}
	return r.writePlain("✓ Added client #%d: %s\n", client.ClientID, client.FullName())
}

func (r *Runner) ClientsList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	clients, err := svc.Clients.List()
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Clients(clients), clients)
}

// ClientsGet prints the client followed by its purchased cars and leasing contracts.
func (r *Runner) ClientsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	client, err := svc.Clients.Find(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") || cmd.String("output") != "" {
		return r.writeListing(cmd, formatter.Clients([]*models.Client{client}), client)
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("%s (#%d)", client.FullName(), client.ClientID))
	r.writePlain("National ID: %s\n", client.NationalID)

	purchased := make([]*models.Car, len(client.PurchasedCars))
	for i := range client.PurchasedCars {
		purchased[i] = &client.PurchasedCars[i]
	}
	leased := make([]*models.Leasing, len(client.LeasedCars))
	for i := range client.LeasedCars {
		leased[i] = &client.LeasedCars[i]
	}

	r.writePlainln("Purchased cars")
	if err := formatter.Render(r.output, formatter.Cars(purchased), f); err != nil {
		return err
	}
	r.writePlainln("Leasing contracts")
	return formatter.Render(r.output, formatter.Leasings(leased), f)
}

func (r *Runner) ClientsFind(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: <name>", shared.ErrMissingArgument)
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	clients, err := svc.Clients.FindByName(name)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Clients(clients), clients)
}

func (r *Runner) ClientsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	if err := svc.Clients.Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted client #%d\n", id)
}

func (r *Runner) EmployeesAdd(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	employee := &models.Employee{Person: personFrom(cmd), Role: cmd.String("role")}
	if err := svc.Employees.Add(employee); err != nil {
		return err
	}
	return r.writePlain("✓ Added employee #%d: %s (%s)\n", employee.EmployeeID, employee.FullName(), employee.Role)
}

func (r *Runner) EmployeesList(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.services()
	if err != nil {
		return err
	}
	employees, err := svc.Employees.List()
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Employees(employees), employees)
}

func (r *Runner) EmployeesGet(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	employee, err := svc.Employees.Find(id)
	if err != nil {
		return err
	}
	return r.writeListing(cmd, formatter.Employees([]*models.Employee{employee}), employee)
}

func (r *Runner) EmployeesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	if err := svc.Employees.Delete(id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted employee #%d\n", id)
}

func (r *Runner) EmployeesAssign(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.services()
	if err != nil {
		return err
	}
	employee, err := svc.Employees.AssignCar(id, cmd.Int64("car"))
	if err != nil {
		return err
	}
	return r.writePlain("✓ %s now manages %d car(s)\n", employee.FullName(), len(employee.ManagedCars))
}
