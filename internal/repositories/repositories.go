// package repositories provides the stores behind every dealership entity kind.
//
// Two interchangeable implementations of models.Repository[T] exist: the relational
// [mapper.DBRepository] driven by the field descriptors in this package, and the CSV
// backed [FileRepository]. [Open] picks one of them from the storage configuration.
package repositories

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/mapper"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
)

// Store groups one repository per entity kind.
type Store struct {
	Cars         models.Repository[models.Car]
	Clients      models.Repository[models.Client]
	Employees    models.Repository[models.Employee]
	Leasings     models.Repository[models.Leasing]
	Transactions models.Repository[models.Transaction]

	// Backend names the active implementation: "database" or "file".
	Backend string
	db      *sql.DB
}

// Open builds the store selected by cfg.Storage. The database backend runs pending
// migrations before returning.
func Open(cfg *shared.Config, logger *log.Logger) (*Store, error) {
	if !cfg.Storage.UseDatabase {
		return NewFileStore(cfg.Storage.DataDir, logger)
	}

	d, err := mapper.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	if d.Name == mapper.SQLite.Name {
		if err := ensureDir(cfg.Database.URL); err != nil {
			return nil, err
		}
	}

	db, err := shared.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db, cfg.Database.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	store, err := NewDBStore(db, d, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewDBStore wires mapper repositories for every kind on db. Leasings are hydrated
// through the car and client repositories of the same store.
func NewDBStore(db *sql.DB, d mapper.Dialect, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "store", d.Name)

	cars, err := NewCarRepository(db, d, logger)
	if err != nil {
		return nil, err
	}
	clients, err := NewClientRepository(db, d, logger)
	if err != nil {
		return nil, err
	}
	employees, err := NewEmployeeRepository(db, d, logger)
	if err != nil {
		return nil, err
	}
	leasings, err := NewLeasingRepository(db, d, NewLeasingHydrator(cars, clients), logger)
	if err != nil {
		return nil, err
	}
	transactions, err := NewTransactionRepository(db, d, logger)
	if err != nil {
		return nil, err
	}

	return &Store{
		Cars:         cars,
		Clients:      clients,
		Employees:    employees,
		Leasings:     leasings,
		Transactions: transactions,
		Backend:      "database",
		db:           db,
	}, nil
}

// NewFileStore wires CSV repositories for every kind under dir, creating it if needed.
func NewFileStore(dir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	logger = shared.WithLogger(logger, "store", "file")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cars, err := NewFileRepository[models.Car](filepath.Join(dir, "cars.csv"), CarCodec{}, logger)
	if err != nil {
		return nil, err
	}
	clients, err := NewFileRepository[models.Client](filepath.Join(dir, "clients.csv"), ClientCodec{}, logger)
	if err != nil {
		return nil, err
	}
	employees, err := NewFileRepository[models.Employee](filepath.Join(dir, "employees.csv"), EmployeeCodec{}, logger)
	if err != nil {
		return nil, err
	}
	leasings, err := NewFileRepository[models.Leasing](filepath.Join(dir, "leasings.csv"), LeasingCodec{}, logger)
	if err != nil {
		return nil, err
	}
	leasings.OnLoad(NewLeasingHydrator(cars, clients).Hydrate)
	transactions, err := NewFileRepository[models.Transaction](filepath.Join(dir, "transactions.csv"), TransactionCodec{}, logger)
	if err != nil {
		return nil, err
	}

	return &Store{
		Cars:         cars,
		Clients:      clients,
		Employees:    employees,
		Leasings:     leasings,
		Transactions: transactions,
		Backend:      "file",
	}, nil
}

// Close releases the database handle, if any.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	if dbPath == "" || dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
