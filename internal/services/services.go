// package services implements the dealership operations on top of the entity repositories:
// stock management, client and employee records, leasing contracts and sales bookkeeping.
//
// Services only depend on models.Repository, so they run unchanged over the relational
// and the CSV stores.
package services

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/repositories"
	"github.com/desertthunder/carvy/internal/shared"
)

// Services groups the dealership services sharing one store.
type Services struct {
	Cars         *CarService
	Clients      *ClientService
	Employees    *EmployeeService
	Leasings     *LeasingService
	Transactions *TransactionService
}

// New wires every service on store.
func New(store *repositories.Store, terms shared.LeasingConfig, logger *log.Logger) *Services {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Services{
		Cars:         NewCarService(store.Cars, store.Clients, store.Transactions, logger),
		Clients:      NewClientService(store.Clients, store.Cars, store.Leasings, store.Transactions),
		Employees:    NewEmployeeService(store.Employees, store.Cars, logger),
		Leasings:     NewLeasingService(store.Leasings, store.Cars, store.Clients, store.Transactions, NewCalculator(terms), logger),
		Transactions: NewTransactionService(store.Transactions),
	}
}

// clock is replaced in tests.
var clock = func() time.Time { return time.Now().UTC() }

// find reads id from r and turns an absent entity into [shared.ErrNotFound].
func find[T any](r models.Reader[T], kind string, id int64) (*T, error) {
	e, err := r.Read(id)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %d: %w", kind, id, err)
	}
	if e == nil {
		return nil, fmt.Errorf("%s %d: %w", kind, id, shared.ErrNotFound)
	}
	return e, nil
}

// filter returns the entities of all matching keep, preserving order.
func filter[T any](all []*T, keep func(*T) bool) []*T {
	matched := make([]*T, 0, len(all))
	for _, e := range all {
		if keep(e) {
			matched = append(matched, e)
		}
	}
	return matched
}

// purchasesOf returns the sale transactions recorded for clientID.
func purchasesOf(transactions models.Repository[models.Transaction], clientID int64) ([]*models.Transaction, error) {
	all, err := transactions.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return filter(all, func(t *models.Transaction) bool {
		return t.ClientID == clientID && t.TransactionType == models.TransactionSold
	}), nil
}
