// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// listingFlags are shared by every command printing entities.
func listingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: table, csv, markdown or text",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Export the listing to a file instead of printing it",
		},
	}
}

func withListing(flags ...cli.Flag) []cli.Flag {
	return append(flags, listingFlags()...)
}

func idArgument(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

func personFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first-name", Usage: "First name", Required: true},
		&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: true},
		&cli.StringFlag{Name: "national-id", Usage: "National identification number", Required: true},
	}
}

func leaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{Name: "client", Usage: "Client id", Required: true},
		&cli.IntFlag{Name: "months", Aliases: []string{"m"}, Usage: "Contract duration in months", Value: 36},
		&cli.FloatFlag{Name: "rate", Usage: "Annual interest rate in percent", Value: 0},
		&cli.FloatFlag{Name: "down", Usage: "Down payment", Value: 0},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and storage",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

func carsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cars",
		Usage: "Manage the car stock",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a car to the stock",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "brand", Usage: "Manufacturer", Required: true},
					&cli.StringFlag{Name: "model", Usage: "Model name", Required: true},
					&cli.IntFlag{Name: "year", Usage: "Model year", Required: true},
					&cli.FloatFlag{Name: "price", Usage: "Sale price", Required: true},
					&cli.IntFlag{Name: "mileage", Usage: "Odometer reading"},
					&cli.StringFlag{Name: "status", Usage: "AVAILABLE, LEASED or SOLD", Value: "available"},
				},
				Action: r.CarsAdd,
			},
			{
				Name:   "list",
				Usage:  "List every car",
				Flags:  listingFlags(),
				Action: r.CarsList,
			},
			{
				Name:      "get",
				Usage:     "Show one car",
				Arguments: idArgument("id"),
				Flags:     listingFlags(),
				Action:    r.CarsGet,
			},
			{
				Name:      "delete",
				Usage:     "Remove a car from the stock",
				Arguments: idArgument("id"),
				Action:    r.CarsDelete,
			},
			{
				Name:      "sell",
				Usage:     "Sell an available car to a client",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "client", Usage: "Client id", Required: true},
				},
				Action: r.CarsSell,
			},
			{
				Name:      "lease",
				Usage:     "Lease an available car to a client",
				Arguments: idArgument("id"),
				Flags:     withListing(leaseFlags()...),
				Action:    r.CarsLease,
			},
			{
				Name:   "available",
				Usage:  "List cars that can be sold or leased",
				Flags:  listingFlags(),
				Action: r.CarsAvailable,
			},
			{
				Name:  "search",
				Usage: "Search cars by brand or model",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "term"},
				},
				Flags:  listingFlags(),
				Action: r.CarsSearch,
			},
			{
				Name:  "sort",
				Usage: "List cars ordered by a field",
				Flags: withListing(
					&cli.StringFlag{Name: "by", Usage: "price, year, mileage or brand", Value: "price"},
					&cli.BoolFlag{Name: "desc", Usage: "Sort in descending order"},
				),
				Action: r.CarsSort,
			},
			{
				Name:  "filter",
				Usage: "List cars matching status, price and year criteria",
				Flags: withListing(
					&cli.StringFlag{Name: "status", Usage: "AVAILABLE, LEASED or SOLD"},
					&cli.FloatFlag{Name: "max-price", Usage: "Highest price"},
					&cli.IntFlag{Name: "min-year", Usage: "Oldest model year"},
				),
				Action: r.CarsFilter,
			},
		},
	}
}

func clientsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "clients",
		Usage: "Manage client records",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Register a client",
				Flags:  personFlags(),
				Action: r.ClientsAdd,
			},
			{
				Name:   "list",
				Usage:  "List every client",
				Flags:  listingFlags(),
				Action: r.ClientsList,
			},
			{
				Name:      "get",
				Usage:     "Show a client with purchased and leased cars",
				Arguments: idArgument("id"),
				Flags:     listingFlags(),
				Action:    r.ClientsGet,
			},
			{
				Name:  "find",
				Usage: "Find clients by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  listingFlags(),
				Action: r.ClientsFind,
			},
			{
				Name:      "delete",
				Usage:     "Remove a client",
				Arguments: idArgument("id"),
				Action:    r.ClientsDelete,
			},
		},
	}
}

func employeesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "employees",
		Usage: "Manage staff records",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register an employee",
				Flags: append(personFlags(),
					&cli.StringFlag{Name: "role", Usage: "Job title", Required: true},
				),
				Action: r.EmployeesAdd,
			},
			{
				Name:   "list",
				Usage:  "List every employee",
				Flags:  listingFlags(),
				Action: r.EmployeesList,
			},
			{
				Name:      "get",
				Usage:     "Show one employee",
				Arguments: idArgument("id"),
				Flags:     listingFlags(),
				Action:    r.EmployeesGet,
			},
			{
				Name:      "delete",
				Usage:     "Remove an employee",
				Arguments: idArgument("id"),
				Action:    r.EmployeesDelete,
			},
			{
				Name:      "assign",
				Usage:     "Assign a car to an employee",
				Arguments: idArgument("id"),
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "car", Usage: "Car id", Required: true},
				},
				Action: r.EmployeesAssign,
			},
		},
	}
}

func leasingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "leasings",
		Aliases: []string{"leases"},
		Usage:   "Manage leasing contracts",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a leasing contract",
				Flags: withListing(append(leaseFlags(),
					&cli.Int64Flag{Name: "car", Usage: "Car id", Required: true},
				)...),
				Action: r.LeasingsAdd,
			},
			{
				Name:  "estimate",
				Usage: "Price a leasing contract without recording it",
				Flags: withListing(append(leaseFlags(),
					&cli.Int64Flag{Name: "car", Usage: "Car id", Required: true},
				)...),
				Action: r.LeasingsEstimate,
			},
			{
				Name:  "list",
				Usage: "List leasing contracts",
				Flags: withListing(
					&cli.Int64Flag{Name: "client", Usage: "Only contracts of this client"},
				),
				Action: r.LeasingsList,
			},
			{
				Name:      "get",
				Usage:     "Show one leasing contract",
				Arguments: idArgument("id"),
				Flags:     listingFlags(),
				Action:    r.LeasingsGet,
			},
			{
				Name:      "delete",
				Usage:     "Remove a leasing contract",
				Arguments: idArgument("id"),
				Action:    r.LeasingsDelete,
			},
		},
	}
}

func transactionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "transactions",
		Aliases: []string{"tx"},
		Usage:   "Record and review sales and leases",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Record a transaction",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "car", Usage: "Car id", Required: true},
					&cli.Int64Flag{Name: "client", Usage: "Client id", Required: true},
					&cli.StringFlag{Name: "type", Usage: "SOLD or LEASED", Required: true},
					&cli.TimestampFlag{
						Name:   "date",
						Usage:  "Transaction date (YYYY-MM-DD), defaults to now",
						Config: cli.TimestampConfig{Layouts: []string{"2006-01-02", "2006-01-02T15:04:05Z07:00"}},
					},
				},
				Action: r.TransactionsAdd,
			},
			{
				Name:  "list",
				Usage: "List transactions",
				Flags: withListing(
					&cli.Int64Flag{Name: "client", Usage: "Only transactions of this client"},
				),
				Action: r.TransactionsList,
			},
			{
				Name:  "type",
				Usage: "List transactions of one type",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "type"},
				},
				Flags:  listingFlags(),
				Action: r.TransactionsByType,
			},
		},
	}
}

func menuCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "menu",
		Aliases: []string{"tui"},
		Usage:   "Browse the dealership interactively",
		Action:  r.Menu,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export every collection to a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Output directory (default: carvy_export_<epoch>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, markdown, text or json", Value: "csv"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent exports (max 10)", Value: 3},
			&cli.FloatFlag{Name: "rate", Usage: "Collections loaded per second (0 for unlimited)"},
		},
		Action: r.Export,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve read-only JSON listings over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default: server.host:server.port from config)"},
		},
		Action: r.Serve,
	}
}
